package service

import (
	"context"
	"time"

	"orderdesk_backend/internal/events"
	"orderdesk_backend/internal/orders/domain"
	"orderdesk_backend/internal/orders/queue"
	"orderdesk_backend/internal/orders/repository"
	"orderdesk_backend/internal/orders/stats"
	"orderdesk_backend/internal/orders/transport"
	"orderdesk_backend/internal/scheduler"
	"orderdesk_backend/platform/apperr"
	"orderdesk_backend/platform/logger"
	"orderdesk_backend/platform/phone"
	"orderdesk_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service provides business logic for the order lifecycle and the
// dispatcher work queue.
type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
	sweeper  scheduler.SweepScheduler
	log      *logger.Logger
}

func New(repo *repository.Repository, eventBus events.Bus, sweeper scheduler.SweepScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, sweeper: sweeper, log: log}
}

// Create registers a new order. Creation is idempotent on the request's
// idempotency key: a retry of an already-applied submission returns the
// original order with created=false instead of a duplicate.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req transport.CreateOrderRequest) (transport.OrderResponse, bool, error) {
	normalized, err := phone.Normalize(req.ClientPhone)
	if err != nil {
		return transport.OrderResponse{}, false, apperr.Validation("invalid client phone number")
	}

	urgency := domain.Urgency(req.Urgency)
	if urgency == domain.UrgencyPlanned && req.PreferredDate == nil {
		return transport.OrderResponse{}, false, apperr.Validation("planned orders require a preferred date")
	}
	if req.CalloutFee != nil && req.InitialPrice != nil && *req.InitialPrice < *req.CalloutFee {
		return transport.OrderResponse{}, false, apperr.Validation("initial price cannot be below the callout fee")
	}

	now := time.Now()
	o := domain.Order{
		ID:                   uuid.New(),
		Status:               domain.StatusPlaced,
		Urgency:              urgency,
		ServiceType:          sanitize.Text(req.ServiceType),
		Area:                 sanitize.Text(req.Area),
		FullAddress:          sanitize.Text(req.FullAddress),
		Orientir:             sanitize.Text(req.Orientir),
		ProblemDescription:   sanitize.Text(req.ProblemDescription),
		DispatcherNote:       sanitize.Text(req.DispatcherNote),
		Client:               domain.Client{Name: sanitize.Text(req.ClientName), Phone: normalized},
		DispatcherID:         actor.ID,
		AssignedDispatcherID: actor.ID,
		PreferredDate:        req.PreferredDate,
		CalloutFee:           req.CalloutFee,
		InitialPrice:         req.InitialPrice,
		IdempotencyKey:       req.IdempotencyKey,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	id, created, err := s.repo.CreateIdempotent(ctx, &o)
	if err != nil {
		return transport.OrderResponse{}, false, err
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, false, err
	}

	if created {
		s.log.DispatchEvent("order_created", stored.ID.String(), actor.ID.String(), true, "")
		s.eventBus.Publish(ctx, events.OrderCreated{
			BaseEvent:    events.NewBaseEvent(),
			OrderID:      stored.ID,
			DispatcherID: actor.ID,
			Urgency:      string(stored.Urgency),
			ServiceType:  stored.ServiceType,
			Area:         stored.Area,
			FullAddress:  stored.FullAddress,
			ClientPhone:  stored.Client.Phone,
		})
	}

	return transport.ToOrderResponse(*stored), created, nil
}

// List returns one page of the work queue for the actor. Masters only see
// orders they hold; dispatchers see the whole queue, or their own orders
// with mine=true.
func (s *Service) List(ctx context.Context, actor domain.Actor, q transport.ListOrdersQuery) (transport.OrderListResponse, error) {
	orders, err := s.scopedOrders(ctx, actor, q.Mine)
	if err != nil {
		return transport.OrderListResponse{}, err
	}

	perPage := queue.PageSizeCard
	if q.View == "compact" {
		perPage = queue.PageSizeCompact
	}

	result := queue.Apply(orders, queue.Query{
		Search:      q.Search,
		Tab:         queue.Tab(q.Tab),
		Urgency:     domain.Urgency(q.Urgency),
		ServiceType: q.ServiceType,
		Sort:        queue.SortOrder(q.Sort),
		Page:        q.Page,
		PerPage:     perPage,
	})
	return transport.ToOrderListResponse(result), nil
}

// Get returns one order. A master may only read orders assigned to them.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (transport.OrderResponse, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if actor.Role == domain.ActorMaster && (o.Master == nil || o.Master.ID != actor.ID) {
		return transport.OrderResponse{}, apperr.NotFound("order not found").WithCode(domain.CodeOrderNotFound)
	}
	return transport.ToOrderResponse(*o), nil
}

// Update applies a partial edit of the order's descriptive fields.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.UpdateOrderRequest) (transport.OrderResponse, error) {
	patch := repository.FieldPatch{
		ServiceType:        sanitize.TextPtr(req.ServiceType),
		Area:               sanitize.TextPtr(req.Area),
		FullAddress:        sanitize.TextPtr(req.FullAddress),
		Orientir:           sanitize.TextPtr(req.Orientir),
		ProblemDescription: sanitize.TextPtr(req.ProblemDescription),
		DispatcherNote:     sanitize.TextPtr(req.DispatcherNote),
		PreferredDate:      req.PreferredDate,
		CalloutFee:         req.CalloutFee,
		InitialPrice:       req.InitialPrice,
		IsDisputed:         req.IsDisputed,
	}
	if req.Urgency != nil {
		u := domain.Urgency(*req.Urgency)
		patch.Urgency = &u
	}

	if err := s.repo.UpdateFields(ctx, id, patch); err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return transport.ToOrderResponse(*o), nil
}

// Assign force-assigns a master to the order.
func (s *Service) Assign(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.AssignRequest) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Assign(ctx, orderID, req.MasterID, sanitize.Text(req.Note), actor)
	if err != nil {
		s.log.DispatchEvent("order_assigned", orderID.String(), actor.ID.String(), false, apperr.GetCode(err))
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	s.eventBus.Publish(ctx, events.OrderAssigned{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   orderID,
		MasterID:  req.MasterID,
		ActorID:   actor.ID,
	})
	s.publishTransition(ctx, orderID, before.Status, o.Status, "")

	return transport.ToOrderResponse(*o), nil
}

// Unassign removes the current master and returns the order to the
// unclaimed queue.
func (s *Service) Unassign(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.UnassignRequest) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Unassign(ctx, orderID, sanitize.Text(req.Reason), actor)
	if err != nil {
		s.log.DispatchEvent("order_unassigned", orderID.String(), actor.ID.String(), false, apperr.GetCode(err))
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	if before.Master != nil {
		s.eventBus.Publish(ctx, events.OrderUnassigned{
			BaseEvent: events.NewBaseEvent(),
			OrderID:   orderID,
			MasterID:  before.Master.ID,
			Reason:    req.Reason,
		})
	}
	s.publishTransition(ctx, orderID, before.Status, o.Status, req.Reason)

	return transport.ToOrderResponse(*o), nil
}

// Transfer hands accountability for the order to another dispatcher.
func (s *Service) Transfer(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.TransferRequest) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Transfer(ctx, orderID, req.DispatcherID, actor)
	if err != nil {
		s.log.DispatchEvent("order_transferred", orderID.String(), actor.ID.String(), false, apperr.GetCode(err))
		return transport.OrderResponse{}, err
	}

	s.log.DispatchEvent("order_transferred", orderID.String(), actor.ID.String(), true, "")
	s.eventBus.Publish(ctx, events.OrderTransferred{
		BaseEvent:        events.NewBaseEvent(),
		OrderID:          orderID,
		FromDispatcherID: before.AssignedDispatcherID,
		ToDispatcherID:   req.DispatcherID,
	})

	return transport.ToOrderResponse(*o), nil
}

// Start marks the master as having begun work on the order.
func (s *Service) Start(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Start(ctx, orderID, actor)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	s.publishTransition(ctx, orderID, before.Status, o.Status, "")
	return transport.ToOrderResponse(*o), nil
}

// Complete records the finished work and its final price.
func (s *Service) Complete(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.CompleteRequest) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Complete(ctx, orderID, req.FinalPrice, actor)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	s.publishTransition(ctx, orderID, before.Status, o.Status, "")
	return transport.ToOrderResponse(*o), nil
}

// ConfirmPayment settles a completed order.
func (s *Service) ConfirmPayment(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.ConfirmPaymentRequest) (transport.OrderResponse, error) {
	o, err := s.repo.ConfirmPayment(ctx, orderID, domain.PaymentMethod(req.Method), req.ProofURL, actor)
	if err != nil {
		s.log.DispatchEvent("payment_confirmed", orderID.String(), actor.ID.String(), false, apperr.GetCode(err))
		return transport.OrderResponse{}, err
	}

	s.log.DispatchEvent("payment_confirmed", orderID.String(), actor.ID.String(), true, "")
	s.eventBus.Publish(ctx, events.PaymentConfirmed{
		BaseEvent:  events.NewBaseEvent(),
		OrderID:    orderID,
		Method:     req.Method,
		FinalPrice: o.FinalPrice,
	})

	return transport.ToOrderResponse(*o), nil
}

// Cancel ends the order with a reason.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, orderID uuid.UUID, req transport.CancelRequest) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Cancel(ctx, orderID, sanitize.Text(req.Reason), actor)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	s.publishTransition(ctx, orderID, before.Status, o.Status, req.Reason)
	return transport.ToOrderResponse(*o), nil
}

// Reopen pulls an expired or master-canceled order back into the queue.
func (s *Service) Reopen(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (transport.OrderResponse, error) {
	before, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	o, err := s.repo.Reopen(ctx, orderID, actor)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.OrderTransition(orderID.String(), string(before.Status), string(o.Status), actor.ID.String())
	s.publishTransition(ctx, orderID, before.Status, o.Status, "")
	return transport.ToOrderResponse(*o), nil
}

// Attention returns the orders needing dispatcher action right now,
// grouped with per-category counts.
func (s *Service) Attention(ctx context.Context, actor domain.Actor) (transport.AttentionResponse, error) {
	orders, err := s.scopedOrders(ctx, actor, actor.Role == domain.ActorDispatcher)
	if err != nil {
		return transport.AttentionResponse{}, err
	}

	now := time.Now()
	items := domain.AttentionList(orders, now)
	counts := domain.AttentionCounts(orders, now)
	return transport.ToAttentionResponse(items, counts), nil
}

// Stats builds the dispatcher's performance report for the window.
func (s *Service) Stats(ctx context.Context, actor domain.Actor, windowDays int) (transport.StatsResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	report := stats.Build(orders, actor.ID, windowDays, time.Now())
	return transport.ToStatsResponse(report), nil
}

// TriggerExpireSweep enqueues an immediate expiry sweep instead of
// waiting for the next periodic run. Admin use, e.g. after shrinking the
// expiry window.
func (s *Service) TriggerExpireSweep(ctx context.Context, actor domain.Actor) error {
	if s.sweeper == nil {
		return apperr.Internal("sweep scheduler not configured")
	}
	if err := s.sweeper.EnqueueExpireSweep(ctx, scheduler.OrderExpireSweepPayload{}); err != nil {
		return err
	}
	s.log.DispatchEvent("expire_sweep_requested", "", actor.ID.String(), true, "")
	return nil
}

func (s *Service) scopedOrders(ctx context.Context, actor domain.Actor, mine bool) ([]domain.Order, error) {
	switch {
	case actor.Role == domain.ActorMaster:
		return s.repo.ListForMaster(ctx, actor.ID)
	case mine && actor.Role != domain.ActorAdmin:
		return s.repo.ListForDispatcher(ctx, actor.ID)
	default:
		return s.repo.List(ctx)
	}
}

func (s *Service) publishTransition(ctx context.Context, orderID uuid.UUID, from, to domain.Status, reason string) {
	if from == to {
		return
	}
	s.eventBus.Publish(ctx, events.OrderStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		OrderID:    orderID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Reason:     reason,
	})
}
