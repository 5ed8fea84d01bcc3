package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const codeMasterNotFound = "MASTER_NOT_FOUND"

// Master is the field worker record.
type Master struct {
	ID            uuid.UUID
	FullName      string
	Phone         string
	Verified      bool
	Active        bool
	ActiveJobs    int
	MaxActiveJobs int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const masterColumns = `
	id, full_name, phone, verified, active, active_jobs, max_active_jobs,
	created_at, updated_at`

func scanMaster(row pgx.Row) (*Master, error) {
	var m Master
	err := row.Scan(&m.ID, &m.FullName, &m.Phone, &m.Verified, &m.Active,
		&m.ActiveJobs, &m.MaxActiveJobs, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all masters. With onlyAvailable it narrows to masters that
// can take a new job right now.
func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]Master, error) {
	query := `SELECT` + masterColumns + ` FROM masters`
	if onlyAvailable {
		query += ` WHERE verified AND active AND active_jobs < max_active_jobs`
	}
	query += ` ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list masters: %w", err)
	}
	defer rows.Close()

	masters := make([]Master, 0)
	for rows.Next() {
		m, err := scanMaster(rows)
		if err != nil {
			return nil, err
		}
		masters = append(masters, *m)
	}
	return masters, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Master, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+masterColumns+` FROM masters WHERE id = $1`, id)
	m, err := scanMaster(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("master not found").WithCode(codeMasterNotFound)
		}
		return nil, fmt.Errorf("failed to get master: %w", err)
	}
	return m, nil
}

func (r *Repository) Create(ctx context.Context, m *Master) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO masters (id, full_name, phone, verified, active, active_jobs, max_active_jobs)
		VALUES ($1, $2, $3, $4, $5, 0, $6)`,
		m.ID, m.FullName, m.Phone, m.Verified, m.Active, m.MaxActiveJobs)
	if err != nil {
		return fmt.Errorf("failed to create master: %w", err)
	}
	return nil
}

// Patch is a partial update of the master's editable fields. Nil pointers
// leave the column untouched.
type Patch struct {
	FullName      *string
	Phone         *string
	Verified      *bool
	Active        *bool
	MaxActiveJobs *int
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p Patch) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE masters SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			verified = COALESCE($4, verified),
			active = COALESCE($5, active),
			max_active_jobs = COALESCE($6, max_active_jobs),
			updated_at = now()
		WHERE id = $1`,
		id, p.FullName, p.Phone, p.Verified, p.Active, p.MaxActiveJobs)
	if err != nil {
		return fmt.Errorf("failed to update master: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("master not found").WithCode(codeMasterNotFound)
	}
	return nil
}
