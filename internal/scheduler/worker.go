package scheduler

import (
	"context"
	"time"

	"orderdesk_backend/internal/events"
	"orderdesk_backend/internal/orders/domain"
	"orderdesk_backend/internal/orders/repository"
	"orderdesk_backend/platform/config"
	"orderdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkerConfig combines the config interfaces the worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.DispatchConfig
}

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	repo      *repository.Repository
	bus       events.Bus
	cfg       WorkerConfig
	log       *logger.Logger
}

func NewWorker(cfg WorkerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	sched := asynq.NewScheduler(opt, nil)

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: sched,
		mux:       mux,
		repo:      repository.New(pool),
		bus:       bus,
		cfg:       cfg,
		log:       log,
	}

	mux.HandleFunc(TaskOrderExpireSweep, w.handleExpireSweep)
	mux.HandleFunc(TaskAttentionAudit, w.handleAttentionAudit)

	sweepTask, err := NewOrderExpireSweepTask(OrderExpireSweepPayload{})
	if err != nil {
		return nil, err
	}
	if _, err := sched.Register("@every 10m", sweepTask, asynq.Queue(queue)); err != nil {
		return nil, err
	}
	if _, err := sched.Register("@every 5m", NewAttentionAuditTask(), asynq.Queue(queue)); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Worker) handleExpireSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOrderExpireSweepPayload(task)
	if err != nil {
		return err
	}

	window := w.cfg.GetOrderExpiryWindow()
	if payload.OlderThan > 0 {
		window = payload.OlderThan
	}

	ids, err := w.repo.ExpireStale(ctx, window)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	w.log.Info("expired stale orders", "count", len(ids), "window", window.String())
	if w.bus != nil {
		w.bus.Publish(ctx, events.OrdersExpired{
			BaseEvent: events.NewBaseEvent(),
			OrderIDs:  ids,
		})
	}
	return nil
}

func (w *Worker) handleAttentionAudit(ctx context.Context, task *asynq.Task) error {
	orders, err := w.repo.List(ctx)
	if err != nil {
		return err
	}

	counts := domain.AttentionCounts(orders, time.Now())
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return nil
	}

	w.log.Info("attention queue snapshot",
		"total", total,
		"disputed", counts[domain.AttentionDisputed],
		"payment", counts[domain.AttentionPayment],
		"canceled", counts[domain.AttentionCanceled],
		"stuck", counts[domain.AttentionStuck],
	)
	return nil
}

// Run blocks serving tasks and the periodic schedule until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
