package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk_backend/internal/orders/domain"
	"orderdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// getForUpdate loads the order inside the transaction with its row locked.
// Concurrent transitions on the same order serialize here.
func getForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	row := tx.QueryRow(ctx, `SELECT`+orderColumns+orderFrom+` WHERE o.id = $1 FOR UPDATE OF o`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMsg).WithCode(domain.CodeOrderNotFound)
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return o, nil
}

// getMasterForUpdate loads the capacity snapshot of a master with its row
// locked, so the active_jobs counter cannot race.
func getMasterForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (domain.MasterCapacity, error) {
	var m domain.MasterCapacity
	err := tx.QueryRow(ctx, `
		SELECT id, full_name, phone, verified, active, active_jobs, max_active_jobs
		FROM masters WHERE id = $1 FOR UPDATE`,
		id).Scan(&m.ID, &m.FullName, &m.Phone, &m.Verified, &m.Active, &m.ActiveJobs, &m.MaxActiveJobs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MasterCapacity{}, apperr.NotFound("master not found").WithCode(domain.CodeMasterNotFound)
		}
		return domain.MasterCapacity{}, fmt.Errorf("failed to lock master: %w", err)
	}
	return m, nil
}

func adjustMasterJobs(ctx context.Context, tx pgx.Tx, masterID uuid.UUID, delta int) error {
	_, err := tx.Exec(ctx,
		`UPDATE masters SET active_jobs = GREATEST(active_jobs + $2, 0), updated_at = now() WHERE id = $1`,
		masterID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust master active jobs: %w", err)
	}
	return nil
}

// insertEvent appends an audit row for a lifecycle mutation. Orders are
// never deleted; together with this log the full history stays queryable.
func insertEvent(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, eventType string, actor domain.Actor, from, to domain.Status, reason string) error {
	var actorID *uuid.UUID
	if actor.ID != uuid.Nil {
		actorID = &actor.ID
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO order_events (order_id, event_type, actor_id, actor_role, from_status, to_status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		orderID, eventType, actorID, actor.Role, from, to, reason)
	if err != nil {
		return fmt.Errorf("failed to insert order event: %w", err)
	}
	return nil
}

// inTx runs fn inside a transaction and returns the reloaded order after
// commit.
func (r *Repository) inTx(ctx context.Context, orderID uuid.UUID, fn func(tx pgx.Tx, o *domain.Order) error) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := getForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetByID(ctx, orderID)
}

// Assign force-assigns a master. When a different master currently holds
// the order the implied unassign and the assign commit together or not at
// all, so no partial state is observable.
func (r *Repository) Assign(ctx context.Context, orderID, masterID uuid.UUID, note string, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		target, err := getMasterForUpdate(ctx, tx, masterID)
		if err != nil {
			return err
		}

		plan, err := domain.DecideAssign(*o, target)
		if err != nil {
			return err
		}

		if plan.ReleaseMasterID != uuid.Nil {
			if err := adjustMasterJobs(ctx, tx, plan.ReleaseMasterID, -1); err != nil {
				return err
			}
			if err := insertEvent(ctx, tx, orderID, "unassigned", actor, o.Status, o.ReopenedOrigin(), domain.ReasonDispatcherReassign); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE orders SET status = $2, master_id = $3,
				dispatcher_note = CASE WHEN $4 <> '' THEN $4 ELSE dispatcher_note END,
				updated_at = now()
			WHERE id = $1`,
			orderID, plan.NewStatus, masterID, note)
		if err != nil {
			return fmt.Errorf("failed to assign master: %w", err)
		}

		if err := adjustMasterJobs(ctx, tx, masterID, +1); err != nil {
			return err
		}

		return insertEvent(ctx, tx, orderID, "assigned", actor, o.Status, plan.NewStatus, "")
	})
}

// Unassign removes the master and returns the order to the unclaimed
// queue.
func (r *Repository) Unassign(ctx context.Context, orderID uuid.UUID, reason string, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		fallback, err := domain.DecideUnassign(*o)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $2, master_id = NULL, updated_at = now() WHERE id = $1`,
			orderID, fallback)
		if err != nil {
			return fmt.Errorf("failed to unassign master: %w", err)
		}

		if err := adjustMasterJobs(ctx, tx, o.Master.ID, -1); err != nil {
			return err
		}

		return insertEvent(ctx, tx, orderID, "unassigned", actor, o.Status, fallback, reason)
	})
}

// Transfer hands accountability to another dispatcher without touching
// master or status.
func (r *Repository) Transfer(ctx context.Context, orderID, targetDispatcherID uuid.UUID, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		if err := domain.DecideTransfer(*o, actor, targetDispatcherID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`UPDATE orders SET assigned_dispatcher_id = $2, updated_at = now() WHERE id = $1`,
			orderID, targetDispatcherID)
		if err != nil {
			return fmt.Errorf("failed to transfer order: %w", err)
		}

		return insertEvent(ctx, tx, orderID, "transferred", actor, o.Status, o.Status, "")
	})
}

// Start marks the master as having begun work.
func (r *Repository) Start(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		if err := domain.DecideStart(*o, actor); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			orderID, domain.StatusStarted)
		if err != nil {
			return fmt.Errorf("failed to start order: %w", err)
		}

		return insertEvent(ctx, tx, orderID, "started", actor, o.Status, domain.StatusStarted, "")
	})
}

// Complete records the finished work with its price.
func (r *Repository) Complete(ctx context.Context, orderID uuid.UUID, finalPrice *int64, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		if err := domain.DecideComplete(*o, actor, finalPrice); err != nil {
			return err
		}

		price := finalPrice
		if price == nil {
			price = o.InitialPrice
		}

		_, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, final_price = $3, updated_at = now() WHERE id = $1`,
			orderID, domain.StatusCompleted, price)
		if err != nil {
			return fmt.Errorf("failed to complete order: %w", err)
		}

		if o.Master != nil {
			if err := adjustMasterJobs(ctx, tx, o.Master.ID, -1); err != nil {
				return err
			}
		}

		return insertEvent(ctx, tx, orderID, "completed", actor, o.Status, domain.StatusCompleted, "")
	})
}

// ConfirmPayment settles a completed order.
func (r *Repository) ConfirmPayment(ctx context.Context, orderID uuid.UUID, method domain.PaymentMethod, proofURL string, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		if err := domain.DecideConfirmPayment(*o, method, proofURL); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE orders SET status = $2, payment_method = $3, payment_proof_url = $4, updated_at = now()
			WHERE id = $1`,
			orderID, domain.StatusConfirmed, method, nullable(proofURL))
		if err != nil {
			return fmt.Errorf("failed to confirm payment: %w", err)
		}

		return insertEvent(ctx, tx, orderID, "payment_confirmed", actor, o.Status, domain.StatusConfirmed, string(method))
	})
}

// Cancel ends the order with a cancellation reason. An assigned master is
// freed.
func (r *Repository) Cancel(ctx context.Context, orderID uuid.UUID, reason string, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		target, err := domain.DecideCancel(*o, actor, reason)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			orderID, target)
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		if o.Master != nil && o.Status != domain.StatusCompleted {
			if err := adjustMasterJobs(ctx, tx, o.Master.ID, -1); err != nil {
				return err
			}
		}

		return insertEvent(ctx, tx, orderID, "canceled", actor, o.Status, target, reason)
	})
}

// Reopen pulls a dead order back into the active queue.
func (r *Repository) Reopen(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (*domain.Order, error) {
	return r.inTx(ctx, orderID, func(tx pgx.Tx, o *domain.Order) error {
		if err := domain.DecideReopen(*o, actor); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE orders SET status = $2, master_id = NULL, was_reopened = TRUE, updated_at = now()
			WHERE id = $1`,
			orderID, domain.StatusReopened)
		if err != nil {
			return fmt.Errorf("failed to reopen order: %w", err)
		}

		return insertEvent(ctx, tx, orderID, "reopened", actor, o.Status, domain.StatusReopened, "")
	})
}

// ExpireStale marks unclaimed orders older than the window as expired and
// returns the ids it touched. Runs from the scheduler; clients never
// initiate this transition.
func (r *Repository) ExpireStale(ctx context.Context, olderThan time.Duration) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE status IN ($2, $3) AND created_at < now() - $4::interval
		RETURNING id`,
		domain.StatusExpired, domain.StatusPlaced, domain.StatusReopened,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return nil, fmt.Errorf("failed to expire stale orders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
