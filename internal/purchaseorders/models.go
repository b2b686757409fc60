package purchaseorders

import (
	"time"

	"github.com/google/uuid"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// Status represents the lifecycle stage of a purchase order
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPendingApproval   Status = "pending_approval"
	StatusUnderReview       Status = "under_review"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusOrdered           Status = "ordered"
	StatusPartiallyReceived Status = "partially_received"
	StatusReceived          Status = "received"
	StatusClosed            Status = "closed"
	StatusCancelled         Status = "cancelled"
	StatusOnHold            Status = "on_hold"
	StatusAwaitingInfo      Status = "awaiting_info"
)

// PurchaseOrder is a commitment to buy from a supplier
type PurchaseOrder struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	PONumber     string     `json:"po_number" db:"po_number"`
	SupplierID   uuid.UUID  `json:"supplier_id" db:"supplier_id"`
	Description  string     `json:"description" db:"description"`
	Amount       float64    `json:"amount" db:"amount"`
	Currency     string     `json:"currency" db:"currency"`
	Status       Status     `json:"status" db:"status"`
	RequestedBy  uuid.UUID  `json:"requested_by" db:"requested_by"`
	ExpectedDate *time.Time `json:"expected_date,omitempty" db:"expected_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// TransitionContext carries the purchase order fields the transition
// guards evaluate. Built by the service from the stored order, never
// from client input.
type TransitionContext struct {
	Amount float64
}

// CreateRequest is the payload for creating a purchase order
type CreateRequest struct {
	PONumber     string     `json:"po_number" binding:"required"`
	SupplierID   uuid.UUID  `json:"supplier_id" binding:"required"`
	Description  string     `json:"description"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	Currency     string     `json:"currency"`
	ExpectedDate *time.Time `json:"expected_date"`
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

// Filters narrows purchase order listings
type Filters struct {
	Status     *Status
	SupplierID *uuid.UUID
	Limit      int
	Offset     int
}
