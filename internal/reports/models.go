package reports

import (
	"time"

	"github.com/google/uuid"
)

// StatusCount is one bucket of a status distribution
type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

// CategoryCount is one bucket of a workflow category distribution
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RiskCount is one bucket of a supplier risk distribution
type RiskCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// DashboardSummary is the aggregate view behind the portal landing page
type DashboardSummary struct {
	PurchaseOrders struct {
		Total       int             `json:"total"`
		ByStatus    []StatusCount   `json:"by_status"`
		ByCategory  []CategoryCount `json:"by_category"`
		AvgProgress int             `json:"avg_progress"`
		OpenAmount  float64         `json:"open_amount"`
	} `json:"purchase_orders"`
	Suppliers struct {
		Total    int           `json:"total"`
		ByStatus []StatusCount `json:"by_status"`
		ByRisk   []RiskCount   `json:"by_risk"`
	} `json:"suppliers"`
	RFQs struct {
		Total    int           `json:"total"`
		ByStatus []StatusCount `json:"by_status"`
	} `json:"rfqs"`
	RecentTransitions []RecentTransition `json:"recent_transitions"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// RecentTransition is one row of the status history audit feed
type RecentTransition struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id" db:"entity_id"`
	FromStatus string    `json:"from_status" db:"from_status"`
	ToStatus   string    `json:"to_status" db:"to_status"`
	Action     string    `json:"action" db:"action"`
	ActorID    uuid.UUID `json:"actor_id" db:"actor_id"`
	ActorRole  string    `json:"actor_role" db:"actor_role"`
	Reason     string    `json:"reason" db:"reason"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}

// PipelineRow is one line of the purchase order pipeline report
type PipelineRow struct {
	PONumber     string    `json:"po_number" db:"po_number"`
	SupplierName string    `json:"supplier_name" db:"supplier_name"`
	Status       string    `json:"status" db:"status"`
	StatusLabel  string    `json:"status_label" db:"-"`
	Progress     int       `json:"progress" db:"-"`
	Amount       float64   `json:"amount" db:"amount"`
	Currency     string    `json:"currency" db:"currency"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RiskRow is one line of the supplier risk report
type RiskRow struct {
	Code              string  `json:"code" db:"code"`
	Name              string  `json:"name" db:"name"`
	Status            string  `json:"status" db:"status"`
	StatusLabel       string  `json:"status_label" db:"-"`
	PerformanceRating int     `json:"performance_rating" db:"performance_rating"`
	OnTimeDeliveryPct float64 `json:"on_time_delivery_pct" db:"on_time_delivery_pct"`
	FinancialHealth   int     `json:"financial_health" db:"financial_health"`
	RiskPoints        int     `json:"risk_points" db:"-"`
	RiskLevel         string  `json:"risk_level" db:"-"`
}
