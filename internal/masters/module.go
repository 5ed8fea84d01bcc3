// Package masters provides the master roster bounded context module.
package masters

import (
	apphttp "orderdesk_backend/internal/http"
	"orderdesk_backend/internal/masters/handler"
	"orderdesk_backend/internal/masters/repository"
	"orderdesk_backend/internal/masters/service"
	"orderdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the masters bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the masters module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "masters"
}

// Service returns the masters service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts masters routes on the provided router context.
// Reads are available to any authenticated user; roster management is
// admin only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/masters"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/masters"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
