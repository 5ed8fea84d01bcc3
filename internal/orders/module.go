// Package orders provides the order dispatch bounded context module.
// This file defines the module that encapsulates all orders setup and route registration.
package orders

import (
	"orderdesk_backend/internal/events"
	apphttp "orderdesk_backend/internal/http"
	"orderdesk_backend/internal/orders/handler"
	"orderdesk_backend/internal/orders/repository"
	"orderdesk_backend/internal/orders/service"
	"orderdesk_backend/internal/scheduler"
	"orderdesk_backend/platform/logger"
	"orderdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the orders module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, sweeper scheduler.SweepScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, sweeper, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the orders service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the orders repository for worker processes that run
// without the HTTP layer.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts orders routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All orders routes require authentication
	ordersGroup := ctx.Protected.Group("/orders")
	m.handler.RegisterRoutes(ordersGroup)

	adminGroup := ctx.Admin.Group("/orders")
	m.handler.RegisterAdminRoutes(adminGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
