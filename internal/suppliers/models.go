package suppliers

import (
	"time"

	"github.com/google/uuid"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// Status represents the lifecycle stage of a supplier relationship
type Status string

const (
	StatusPending     Status = "pending"
	StatusOnboarding  Status = "onboarding"
	StatusActive      Status = "active"
	StatusUnderReview Status = "under_review"
	StatusSuspended   Status = "suspended"
	StatusInactive    Status = "inactive"
	StatusBlacklisted Status = "blacklisted"
)

// Supplier is a vendor the organization buys from
type Supplier struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Code              string    `json:"code" db:"code"`
	Name              string    `json:"name" db:"name"`
	Category          string    `json:"category" db:"category"`
	ContactEmail      string    `json:"contact_email" db:"contact_email"`
	Country           string    `json:"country" db:"country"`
	Status            Status    `json:"status" db:"status"`
	PerformanceRating int       `json:"performance_rating" db:"performance_rating"`
	OnTimeDeliveryPct float64   `json:"on_time_delivery_pct" db:"on_time_delivery_pct"`
	FinancialHealth   int       `json:"financial_health" db:"financial_health"`
	// RiskLevel is a cached copy of the derived score, refreshed by the
	// risk worker for filtering. Authoritative reads recompute it.
	RiskLevel RiskLevel `json:"risk_level" db:"risk_level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TransitionContext carries the derived risk level the supplier guards
// evaluate. Built by the service from current metrics, never from
// client input.
type TransitionContext struct {
	RiskLevel RiskLevel
}

// CreateRequest is the payload for registering a supplier
type CreateRequest struct {
	Code              string  `json:"code" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	Category          string  `json:"category"`
	ContactEmail      string  `json:"contact_email" binding:"omitempty,email"`
	Country           string  `json:"country"`
	PerformanceRating int     `json:"performance_rating" binding:"omitempty,min=1,max=5"`
	OnTimeDeliveryPct float64 `json:"on_time_delivery_pct" binding:"omitempty,min=0,max=100"`
	FinancialHealth   int     `json:"financial_health" binding:"omitempty,min=1,max=5"`
}

// MetricsRequest updates the performance inputs the risk score derives from
type MetricsRequest struct {
	PerformanceRating int     `json:"performance_rating" binding:"required,min=1,max=5"`
	OnTimeDeliveryPct float64 `json:"on_time_delivery_pct" binding:"min=0,max=100"`
	FinancialHealth   int     `json:"financial_health" binding:"required,min=1,max=5"`
}

// TransitionRequest is the payload for a status transition attempt
type TransitionRequest struct {
	ToStatus Status `json:"to_status" binding:"required"`
	Reason   string `json:"reason"`
}

// StatusInfo is the display metadata the UI renders for a status
type StatusInfo struct {
	Status      Status             `json:"status"`
	DisplayName string             `json:"display_name"`
	Description string             `json:"description"`
	Category    workflows.Category `json:"category"`
	Editable    bool               `json:"editable"`
	Progress    int                `json:"progress"`
	Final       bool               `json:"final"`
}

// RiskAssessment is the derived risk view returned on demand
type RiskAssessment struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	Level      RiskLevel `json:"level"`
	Points     int       `json:"points"`
	Inputs     RiskInputs `json:"inputs"`
	ComputedAt time.Time `json:"computed_at"`
}

// Filters narrows supplier listings
type Filters struct {
	Status    *Status
	RiskLevel *RiskLevel
	Category  string
	Limit     int
	Offset    int
}
