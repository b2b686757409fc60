package rfqs

import (
	"time"

	"github.com/google/uuid"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// Status represents the lifecycle stage of a request for quotation
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPublished       Status = "published"
	StatusBidding         Status = "bidding"
	StatusUnderEvaluation Status = "under_evaluation"
	StatusAwarded         Status = "awarded"
	StatusClosed          Status = "closed"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
)

// RFQ is a request for quotation sent out to suppliers
type RFQ struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RFQNumber   string     `json:"rfq_number" db:"rfq_number"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	BidDeadline *time.Time `json:"bid_deadline,omitempty" db:"bid_deadline"`
	BidCount    int        `json:"bid_count" db:"bid_count"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TransitionContext carries the RFQ fields the transition guards
// evaluate
type TransitionContext struct {
	BidDeadline *time.Time
	BidCount    int
}

// CreateRequest is the payload for creating an RFQ
type CreateRequest struct {
	RFQNumber   string     `json:"rfq_number" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	BidDeadline *time.Time `json:"bid_deadline"`
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

// Filters narrows RFQ listings
type Filters struct {
	Status *Status
	Limit  int
	Offset int
}
