package reports

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the interface for report data access
type Repository interface {
	PurchaseOrderStatusCounts(ctx context.Context) ([]StatusCount, error)
	OpenPurchaseOrderAmount(ctx context.Context) (float64, error)
	SupplierStatusCounts(ctx context.Context) ([]StatusCount, error)
	RFQStatusCounts(ctx context.Context) ([]StatusCount, error)
	RecentTransitions(ctx context.Context, limit int) ([]RecentTransition, error)
	PipelineRows(ctx context.Context) ([]PipelineRow, error)
	SupplierRiskRows(ctx context.Context) ([]RiskRow, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// PurchaseOrderStatusCounts returns the PO count per status
func (r *PostgresRepository) PurchaseOrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	return r.statusCounts(ctx, "purchase_orders")
}

// SupplierStatusCounts returns the supplier count per status
func (r *PostgresRepository) SupplierStatusCounts(ctx context.Context) ([]StatusCount, error) {
	return r.statusCounts(ctx, "suppliers")
}

// RFQStatusCounts returns the RFQ count per status
func (r *PostgresRepository) RFQStatusCounts(ctx context.Context) ([]StatusCount, error) {
	return r.statusCounts(ctx, "rfqs")
}

func (r *PostgresRepository) statusCounts(ctx context.Context, table string) ([]StatusCount, error) {
	var counts []StatusCount
	query := fmt.Sprintf(`SELECT status, COUNT(*) AS count FROM %s GROUP BY status ORDER BY count DESC`, table)
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}
	return counts, nil
}

// OpenPurchaseOrderAmount sums the amount of orders still in flight
func (r *PostgresRepository) OpenPurchaseOrderAmount(ctx context.Context) (float64, error) {
	var amount float64
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM purchase_orders
		WHERE status NOT IN ('closed', 'cancelled', 'rejected')`
	if err := r.db.GetContext(ctx, &amount, query); err != nil {
		return 0, fmt.Errorf("failed to sum open purchase order amount: %w", err)
	}
	return amount, nil
}

// RecentTransitions returns the latest status history rows across all entities
func (r *PostgresRepository) RecentTransitions(ctx context.Context, limit int) ([]RecentTransition, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var transitions []RecentTransition
	query := `SELECT * FROM status_history ORDER BY occurred_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &transitions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent transitions: %w", err)
	}
	return transitions, nil
}

// PipelineRows returns the raw purchase order pipeline rows
func (r *PostgresRepository) PipelineRows(ctx context.Context) ([]PipelineRow, error) {
	var rows []PipelineRow
	query := `
		SELECT po.po_number, s.name AS supplier_name, po.status, po.amount, po.currency, po.created_at
		FROM purchase_orders po
		JOIN suppliers s ON s.id = po.supplier_id
		ORDER BY po.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load pipeline rows: %w", err)
	}
	return rows, nil
}

// SupplierRiskRows returns the raw supplier risk report rows
func (r *PostgresRepository) SupplierRiskRows(ctx context.Context) ([]RiskRow, error) {
	var rows []RiskRow
	query := `
		SELECT code, name, status, performance_rating, on_time_delivery_pct, financial_health
		FROM suppliers
		ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load supplier risk rows: %w", err)
	}
	return rows, nil
}
