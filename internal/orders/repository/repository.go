// Package repository provides database operations for orders. Lifecycle
// transitions run in transactions with the order row locked, so concurrent
// dispatchers serialize on the row and the loser observes the winner's
// status.
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
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderNotFoundMsg = "order not found"

// Repository provides database operations for orders.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// orderColumns is the select list shared by every order read. The master
// snapshot comes from a left join on masters.
const orderColumns = `
	o.id, o.status, o.is_disputed, o.urgency, o.service_type, o.area,
	o.full_address, o.orientir, o.problem_description, o.dispatcher_note,
	o.client_name, o.client_phone, o.master_id, m.full_name, m.phone,
	o.dispatcher_id, o.assigned_dispatcher_id, o.was_reopened,
	o.preferred_date, o.callout_fee, o.initial_price, o.final_price,
	o.payment_method, o.payment_proof_url,
	o.idempotency_key, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o LEFT JOIN masters m ON m.id = o.master_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o              domain.Order
		masterID       *uuid.UUID
		masterName     *string
		masterPhone    *string
		payMethod      *string
		proofURL       *string
		idempotencyKey *string
	)

	err := row.Scan(
		&o.ID, &o.Status, &o.IsDisputed, &o.Urgency, &o.ServiceType, &o.Area,
		&o.FullAddress, &o.Orientir, &o.ProblemDescription, &o.DispatcherNote,
		&o.Client.Name, &o.Client.Phone, &masterID, &masterName, &masterPhone,
		&o.DispatcherID, &o.AssignedDispatcherID, &o.WasReopened,
		&o.PreferredDate, &o.CalloutFee, &o.InitialPrice, &o.FinalPrice,
		&payMethod, &proofURL,
		&idempotencyKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if masterID != nil {
		ref := &domain.MasterRef{ID: *masterID}
		if masterName != nil {
			ref.FullName = *masterName
		}
		if masterPhone != nil {
			ref.Phone = *masterPhone
		}
		o.Master = ref
	}
	if payMethod != nil {
		o.PaymentMethod = domain.PaymentMethod(*payMethod)
	}
	if proofURL != nil {
		o.PaymentProofURL = *proofURL
	}
	if idempotencyKey != nil {
		o.IdempotencyKey = *idempotencyKey
	}

	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// List returns the full order collection, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+orderColumns+orderFrom+` ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return collectOrders(rows)
}

// ListForDispatcher returns every order the dispatcher created or is
// accountable for, newest first.
func (r *Repository) ListForDispatcher(ctx context.Context, dispatcherID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+orderColumns+orderFrom+
			` WHERE o.dispatcher_id = $1 OR o.assigned_dispatcher_id = $1 ORDER BY o.created_at DESC`,
		dispatcherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for dispatcher: %w", err)
	}
	return collectOrders(rows)
}

// ListForMaster returns every order currently held by the master.
func (r *Repository) ListForMaster(ctx context.Context, masterID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+orderColumns+orderFrom+` WHERE o.master_id = $1 ORDER BY o.created_at DESC`,
		masterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for master: %w", err)
	}
	return collectOrders(rows)
}

// GetByID retrieves an order by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+orderColumns+orderFrom+` WHERE o.id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMsg).WithCode(domain.CodeOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// CreateIdempotent inserts a new order unless one with the same idempotency
// key already exists. Returns the order id and whether a row was created,
// so a user-initiated retry of a timed-out submission lands on the original
// order instead of creating a duplicate.
func (r *Repository) CreateIdempotent(ctx context.Context, o *domain.Order) (uuid.UUID, bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO orders (
			id, status, is_disputed, urgency, service_type, area, full_address,
			orientir, problem_description, dispatcher_note, client_name,
			client_phone, dispatcher_id, assigned_dispatcher_id, was_reopened,
			preferred_date, callout_fee, initial_price, idempotency_key,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21
		) ON CONFLICT (idempotency_key) DO NOTHING`,
		o.ID, o.Status, o.IsDisputed, o.Urgency, o.ServiceType, o.Area,
		o.FullAddress, o.Orientir, o.ProblemDescription, o.DispatcherNote,
		o.Client.Name, o.Client.Phone, o.DispatcherID, o.AssignedDispatcherID,
		o.WasReopened, o.PreferredDate, o.CalloutFee, o.InitialPrice,
		o.IdempotencyKey, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create order: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return o.ID, true, nil
	}

	// Conflict: a previous attempt with the same key already created the
	// order. Return its id.
	var existingID uuid.UUID
	err = r.pool.QueryRow(ctx,
		`SELECT id FROM orders WHERE idempotency_key = $1`, o.IdempotencyKey).Scan(&existingID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to resolve idempotent create: %w", err)
	}
	return existingID, false, nil
}

// FieldPatch is a partial update of the order's editable fields. Nil
// pointers leave the column untouched.
type FieldPatch struct {
	Urgency            *domain.Urgency
	ServiceType        *string
	Area               *string
	FullAddress        *string
	Orientir           *string
	ProblemDescription *string
	DispatcherNote     *string
	ClientName         *string
	ClientPhone        *string
	PreferredDate      *time.Time
	CalloutFee         *int64
	InitialPrice       *int64
	IsDisputed         *bool
}

// UpdateFields applies a partial update and bumps updated_at.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, patch FieldPatch) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			urgency = COALESCE($2, urgency),
			service_type = COALESCE($3, service_type),
			area = COALESCE($4, area),
			full_address = COALESCE($5, full_address),
			orientir = COALESCE($6, orientir),
			problem_description = COALESCE($7, problem_description),
			dispatcher_note = COALESCE($8, dispatcher_note),
			client_name = COALESCE($9, client_name),
			client_phone = COALESCE($10, client_phone),
			preferred_date = COALESCE($11, preferred_date),
			callout_fee = COALESCE($12, callout_fee),
			initial_price = COALESCE($13, initial_price),
			is_disputed = COALESCE($14, is_disputed),
			updated_at = now()
		WHERE id = $1`,
		id, patch.Urgency, patch.ServiceType, patch.Area, patch.FullAddress,
		patch.Orientir, patch.ProblemDescription, patch.DispatcherNote,
		patch.ClientName, patch.ClientPhone, patch.PreferredDate,
		patch.CalloutFee, patch.InitialPrice, patch.IsDisputed,
	)
	if err != nil {
		return fmt.Errorf("failed to update order fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFoundMsg).WithCode(domain.CodeOrderNotFound)
	}
	return nil
}
