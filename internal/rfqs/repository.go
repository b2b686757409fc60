package rfqs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound indicates the RFQ does not exist
	ErrNotFound = errors.New("rfq not found")
	// ErrStatusConflict indicates the stored status changed between read and write
	ErrStatusConflict = errors.New("rfq status changed concurrently")
)

// Repository defines the interface for RFQ data access
type Repository interface {
	Create(ctx context.Context, rfq *RFQ) error
	GetByID(ctx context.Context, id uuid.UUID) (*RFQ, error)
	List(ctx context.Context, filters *Filters) ([]*RFQ, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new RFQ
func (r *PostgresRepository) Create(ctx context.Context, rfq *RFQ) error {
	query := `
		INSERT INTO rfqs (
			id, rfq_number, title, description, status, bid_deadline,
			bid_count, created_by, created_at, updated_at
		) VALUES (
			:id, :rfq_number, :title, :description, :status, :bid_deadline,
			:bid_count, :created_by, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, rfq); err != nil {
		return fmt.Errorf("failed to create rfq: %w", err)
	}
	return nil
}

// GetByID fetches an RFQ by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*RFQ, error) {
	var rfq RFQ
	query := `SELECT * FROM rfqs WHERE id = $1`

	if err := r.db.GetContext(ctx, &rfq, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rfq: %w", err)
	}
	return &rfq, nil
}

// List returns RFQs matching the filters plus the total count
func (r *PostgresRepository) List(ctx context.Context, filters *Filters) ([]*RFQ, int, error) {
	where := "WHERE 1=1"
	args := map[string]interface{}{}

	if filters.Status != nil {
		where += " AND status = :status"
		args["status"] = *filters.Status
	}

	countQuery := "SELECT COUNT(*) FROM rfqs " + where
	rows, err := r.db.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rfqs: %w", err)
	}
	var total int
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan count: %w", err)
		}
	}
	rows.Close()

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args["limit"] = limit
	args["offset"] = filters.Offset

	query := "SELECT * FROM rfqs " + where + " ORDER BY created_at DESC LIMIT :limit OFFSET :offset"
	rows, err = r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rfqs: %w", err)
	}
	defer rows.Close()

	var rfqList []*RFQ
	for rows.Next() {
		var rfq RFQ
		if err := rows.StructScan(&rfq); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rfq: %w", err)
		}
		rfqList = append(rfqList, &rfq)
	}
	return rfqList, total, nil
}

// UpdateStatus applies a validated transition and records it in the
// status history inside a single transaction
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE rfqs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, now, id, from)
	if err != nil {
		return fmt.Errorf("failed to update rfq status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO status_history (
			id, entity_type, entity_id, from_status, to_status, action,
			actor_id, actor_role, reason, occurred_at
		) VALUES ($1, 'rfq', $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), id, from, to, action, actorID, actorRole, reason, now); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}
