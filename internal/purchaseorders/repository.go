package purchaseorders

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
	// ErrNotFound indicates the purchase order does not exist
	ErrNotFound = errors.New("purchase order not found")
	// ErrStatusConflict indicates the stored status changed between read and write
	ErrStatusConflict = errors.New("purchase order status changed concurrently")
)

// Repository defines the interface for purchase order data access
type Repository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	List(ctx context.Context, filters *Filters) ([]*PurchaseOrder, int, error)
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

// Create inserts a new purchase order
func (r *PostgresRepository) Create(ctx context.Context, po *PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (
			id, po_number, supplier_id, description, amount, currency,
			status, requested_by, expected_date, created_at, updated_at
		) VALUES (
			:id, :po_number, :supplier_id, :description, :amount, :currency,
			:status, :requested_by, :expected_date, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, po); err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}
	return nil
}

// GetByID fetches a purchase order by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	var po PurchaseOrder
	query := `SELECT * FROM purchase_orders WHERE id = $1`

	if err := r.db.GetContext(ctx, &po, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return &po, nil
}

// List returns purchase orders matching the filters plus the total count
func (r *PostgresRepository) List(ctx context.Context, filters *Filters) ([]*PurchaseOrder, int, error) {
	where := "WHERE 1=1"
	args := map[string]interface{}{}

	if filters.Status != nil {
		where += " AND status = :status"
		args["status"] = *filters.Status
	}
	if filters.SupplierID != nil {
		where += " AND supplier_id = :supplier_id"
		args["supplier_id"] = *filters.SupplierID
	}

	countQuery := "SELECT COUNT(*) FROM purchase_orders " + where
	rows, err := r.db.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
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

	query := "SELECT * FROM purchase_orders " + where + " ORDER BY created_at DESC LIMIT :limit OFFSET :offset"
	rows, err = r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.StructScan(&po); err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, &po)
	}
	return orders, total, nil
}

// UpdateStatus applies a validated transition and records it in the
// status history inside a single transaction. The update is guarded on
// the expected current status so a concurrent transition cannot be
// silently overwritten.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE purchase_orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, now, id, from)
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
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
		) VALUES ($1, 'purchase_order', $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), id, from, to, action, actorID, actorRole, reason, now); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}
