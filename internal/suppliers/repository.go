package suppliers

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
	// ErrNotFound indicates the supplier does not exist
	ErrNotFound = errors.New("supplier not found")
	// ErrStatusConflict indicates the stored status changed between read and write
	ErrStatusConflict = errors.New("supplier status changed concurrently")
)

// Repository defines the interface for supplier data access
type Repository interface {
	Create(ctx context.Context, supplier *Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	List(ctx context.Context, filters *Filters) ([]*Supplier, int, error)
	ListAll(ctx context.Context) ([]*Supplier, error)
	UpdateMetrics(ctx context.Context, id uuid.UUID, metrics *MetricsRequest, riskLevel RiskLevel) error
	UpdateRiskLevel(ctx context.Context, id uuid.UUID, riskLevel RiskLevel) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string, riskLevel RiskLevel) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new supplier
func (r *PostgresRepository) Create(ctx context.Context, supplier *Supplier) error {
	query := `
		INSERT INTO suppliers (
			id, code, name, category, contact_email, country, status,
			performance_rating, on_time_delivery_pct, financial_health,
			risk_level, created_at, updated_at
		) VALUES (
			:id, :code, :name, :category, :contact_email, :country, :status,
			:performance_rating, :on_time_delivery_pct, :financial_health,
			:risk_level, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// GetByID fetches a supplier by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	var supplier Supplier
	query := `SELECT * FROM suppliers WHERE id = $1`

	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &supplier, nil
}

// List returns suppliers matching the filters plus the total count
func (r *PostgresRepository) List(ctx context.Context, filters *Filters) ([]*Supplier, int, error) {
	where := "WHERE 1=1"
	args := map[string]interface{}{}

	if filters.Status != nil {
		where += " AND status = :status"
		args["status"] = *filters.Status
	}
	if filters.RiskLevel != nil {
		where += " AND risk_level = :risk_level"
		args["risk_level"] = *filters.RiskLevel
	}
	if filters.Category != "" {
		where += " AND category = :category"
		args["category"] = filters.Category
	}

	countQuery := "SELECT COUNT(*) FROM suppliers " + where
	rows, err := r.db.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
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

	query := "SELECT * FROM suppliers " + where + " ORDER BY name ASC LIMIT :limit OFFSET :offset"
	rows, err = r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		var supplier Supplier
		if err := rows.StructScan(&supplier); err != nil {
			return nil, 0, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, &supplier)
	}
	return suppliers, total, nil
}

// ListAll returns every supplier, used by the risk recomputation worker
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Supplier, error) {
	var suppliers []*Supplier
	if err := r.db.SelectContext(ctx, &suppliers, `SELECT * FROM suppliers ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// UpdateMetrics stores new performance inputs and the recomputed risk cache
func (r *PostgresRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, metrics *MetricsRequest, riskLevel RiskLevel) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE suppliers
		 SET performance_rating = $1, on_time_delivery_pct = $2, financial_health = $3,
		     risk_level = $4, updated_at = $5
		 WHERE id = $6`,
		metrics.PerformanceRating, metrics.OnTimeDeliveryPct, metrics.FinancialHealth,
		riskLevel, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update supplier metrics: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRiskLevel refreshes the cached risk level only
func (r *PostgresRepository) UpdateRiskLevel(ctx context.Context, id uuid.UUID, riskLevel RiskLevel) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE suppliers SET risk_level = $1 WHERE id = $2`, riskLevel, id); err != nil {
		return fmt.Errorf("failed to update supplier risk level: %w", err)
	}
	return nil
}

// UpdateStatus applies a validated transition and records it in the
// status history inside a single transaction. The cached risk level is
// refreshed in the same write since it depends on status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string, riskLevel RiskLevel) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE suppliers SET status = $1, risk_level = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		to, riskLevel, now, id, from)
	if err != nil {
		return fmt.Errorf("failed to update supplier status: %w", err)
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
		) VALUES ($1, 'supplier', $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), id, from, to, action, actorID, actorRole, reason, now); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}
