// Package drafts provides the intake draft bounded context module: the
// Redis-backed autosave store and the recent address suggestions.
package drafts

import (
	"context"

	"orderdesk_backend/internal/drafts/handler"
	"orderdesk_backend/internal/drafts/repository"
	"orderdesk_backend/internal/drafts/service"
	"orderdesk_backend/internal/drafts/transport"
	"orderdesk_backend/internal/events"
	apphttp "orderdesk_backend/internal/http"
	"orderdesk_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module is the drafts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the drafts module. It subscribes to
// order creation so a successful submit clears the dispatcher's draft and
// remembers the address.
func NewModule(rdb *redis.Client, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(rdb)
	svc := service.New(repo, log)
	h := handler.New(svc)

	eventBus.Subscribe(events.OrderCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.OrderCreated)
		if !ok {
			return nil
		}

		if err := svc.Discard(ctx, e.DispatcherID); err != nil {
			log.DraftError("discard_on_create", e.DispatcherID.String(), err)
		}
		address := transport.RecentAddress{Area: e.Area, FullAddress: e.FullAddress}
		if err := svc.RecordAddress(ctx, e.DispatcherID, address); err != nil {
			log.DraftError("record_address", e.DispatcherID.String(), err)
		}
		return nil
	}))

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "drafts"
}

// Close stops the autosave debouncer.
func (m *Module) Close() {
	m.service.Close()
}

// RegisterRoutes mounts drafts routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/drafts"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
