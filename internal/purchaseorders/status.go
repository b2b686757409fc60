package purchaseorders

import (
	"fmt"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

var statusLabels = map[Status]string{
	StatusDraft:             "Draft",
	StatusPendingApproval:   "Pending Approval",
	StatusUnderReview:       "Under Review",
	StatusApproved:          "Approved",
	StatusRejected:          "Rejected",
	StatusOrdered:           "Ordered",
	StatusPartiallyReceived: "Partially Received",
	StatusReceived:          "Received",
	StatusClosed:            "Closed",
	StatusCancelled:         "Cancelled",
	StatusOnHold:            "On Hold",
	StatusAwaitingInfo:      "Awaiting Information",
}

var statusDescriptions = map[Status]string{
	StatusDraft:             "Order is being drafted and has not been submitted",
	StatusPendingApproval:   "Order is waiting for an approver to pick it up",
	StatusUnderReview:       "Order is being reviewed by an approver",
	StatusApproved:          "Order has been approved for purchase",
	StatusRejected:          "Order was rejected and needs revision",
	StatusOrdered:           "Order has been placed with the supplier",
	StatusPartiallyReceived: "Some line items have been received",
	StatusReceived:          "All line items have been received",
	StatusClosed:            "Order is complete and archived",
	StatusCancelled:         "Order was cancelled",
	StatusOnHold:            "Order is paused pending a business decision",
	StatusAwaitingInfo:      "Order is paused waiting for supplier information",
}

// DisplayName returns a human-readable label, with a sentinel for
// unknown values so the UI renders a fallback instead of crashing.
func (s Status) DisplayName() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown Status"
}

// Description returns the longer status description shown in tooltips
func (s Status) Description() string {
	if desc, ok := statusDescriptions[s]; ok {
		return desc
	}
	return "Unknown Status"
}

// ApprovalLimits caps the purchase order amount each role may approve.
// Roles absent from the map have no cap.
type ApprovalLimits struct {
	Limits map[workflows.Role]float64
}

// DefaultApprovalLimits returns the standard approval ladder
func DefaultApprovalLimits() ApprovalLimits {
	return ApprovalLimits{
		Limits: map[workflows.Role]float64{
			workflows.RoleManager:  10_000,
			workflows.RoleDirector: 100_000,
			workflows.RoleVP:       1_000_000,
		},
	}
}

// AmountGuard blocks approvals whose amount exceeds the actor's limit
func AmountGuard(limits ApprovalLimits) workflows.Guard[Status, TransitionContext] {
	return func(from, to Status, actor workflows.Role, ctx TransitionContext) []workflows.Violation {
		if to != StatusApproved {
			return nil
		}
		limit, capped := limits.Limits[actor]
		if !capped || ctx.Amount <= limit {
			return nil
		}
		return []workflows.Violation{{
			Code: workflows.ViolationThresholdExceeded,
			Message: fmt.Sprintf("Purchase order amount $%.2f exceeds approval limit $%.2f for %s role",
				ctx.Amount, limit, string(actor)),
		}}
	}
}

// NewWorkflow builds the purchase order state machine. The rule table is
// the single source of truth for transition legality; callers must not
// hardcode (from, to) pairs anywhere else.
func NewWorkflow(roles workflows.RoleHierarchy, limits ApprovalLimits) (*workflows.StateMachine[Status, TransitionContext], error) {
	rules := map[Status]workflows.Rule[Status]{
		StatusDraft: {
			Action: "submit",
			Next:   []Status{StatusPendingApproval, StatusCancelled},
		},
		StatusPendingApproval: {
			Action: "review",
			Next:   []Status{StatusUnderReview, StatusRejected, StatusCancelled},
		},
		StatusUnderReview: {
			Action:       "approve",
			Next:         []Status{StatusApproved, StatusRejected, StatusOnHold, StatusAwaitingInfo, StatusCancelled},
			RequiredRole: workflows.RoleManager,
		},
		StatusApproved: {
			Action: "order",
			Next:   []Status{StatusOrdered, StatusOnHold, StatusCancelled},
		},
		StatusRejected: {
			Action:         "revise",
			Next:           []Status{StatusDraft, StatusCancelled},
			RequiresReason: true,
		},
		StatusOrdered: {
			Action: "receive",
			Next:   []Status{StatusPartiallyReceived, StatusReceived, StatusOnHold, StatusAwaitingInfo, StatusCancelled},
		},
		StatusPartiallyReceived: {
			Action: "receive",
			Next:   []Status{StatusReceived, StatusCancelled},
		},
		StatusReceived: {
			Action: "close",
			Next:   []Status{StatusClosed},
		},
		// Side states resume at a pre-terminal stage, never straight to closed
		StatusOnHold: {
			Action:         "resume",
			Next:           []Status{StatusUnderReview, StatusApproved, StatusOrdered, StatusCancelled},
			RequiresReason: true,
		},
		StatusAwaitingInfo: {
			Action: "resume",
			Next:   []Status{StatusUnderReview, StatusOrdered, StatusCancelled},
		},
		StatusClosed:    {Final: true},
		StatusCancelled: {Final: true},
	}
	return workflows.NewStateMachine(StatusDraft, rules, roles, AmountGuard(limits))
}

// NewClassification buckets purchase order statuses for filtering and
// progress display
func NewClassification() workflows.Classification[Status] {
	categories := map[Status]workflows.Category{
		StatusDraft:             workflows.CategoryInitial,
		StatusPendingApproval:   workflows.CategoryApproval,
		StatusUnderReview:       workflows.CategoryApproval,
		StatusApproved:          workflows.CategoryActive,
		StatusOrdered:           workflows.CategoryActive,
		StatusPartiallyReceived: workflows.CategoryActive,
		StatusReceived:          workflows.CategoryCompletion,
		StatusClosed:            workflows.CategoryCompletion,
		StatusRejected:          workflows.CategoryProblem,
		StatusCancelled:         workflows.CategoryProblem,
		StatusOnHold:            workflows.CategoryProblem,
		StatusAwaitingInfo:      workflows.CategoryProblem,
	}
	editable := []Status{StatusDraft, StatusRejected, StatusAwaitingInfo}
	progress := map[Status]int{
		StatusDraft:             5,
		StatusPendingApproval:   20,
		StatusUnderReview:       30,
		StatusApproved:          45,
		StatusOrdered:           60,
		StatusPartiallyReceived: 75,
		StatusReceived:          90,
		StatusClosed:            100,
		StatusRejected:          10,
		StatusOnHold:            40,
		StatusAwaitingInfo:      40,
		StatusCancelled:         0,
	}
	return workflows.NewClassification(categories, editable, progress)
}
