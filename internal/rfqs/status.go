package rfqs

import (
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

var statusLabels = map[Status]string{
	StatusDraft:           "Draft",
	StatusPublished:       "Published",
	StatusBidding:         "Bidding",
	StatusUnderEvaluation: "Under Evaluation",
	StatusAwarded:         "Awarded",
	StatusClosed:          "Closed",
	StatusCancelled:       "Cancelled",
	StatusExpired:         "Expired",
}

var statusDescriptions = map[Status]string{
	StatusDraft:           "RFQ is being drafted",
	StatusPublished:       "RFQ is visible to invited suppliers",
	StatusBidding:         "Suppliers are submitting bids",
	StatusUnderEvaluation: "Bids are being compared and scored",
	StatusAwarded:         "A winning bid has been selected",
	StatusClosed:          "RFQ is complete and archived",
	StatusCancelled:       "RFQ was cancelled",
	StatusExpired:         "RFQ deadline passed without an award",
}

// DisplayName returns a human-readable label, with a sentinel for
// unknown values
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

// PublishGuard blocks publishing an RFQ without a bid deadline and
// awarding one that received no bids
func PublishGuard() workflows.Guard[Status, TransitionContext] {
	return func(from, to Status, actor workflows.Role, ctx TransitionContext) []workflows.Violation {
		switch to {
		case StatusPublished:
			if ctx.BidDeadline == nil {
				return []workflows.Violation{{
					Code:    workflows.ViolationMissingField,
					Message: "A bid deadline is required before publishing an RFQ",
				}}
			}
		case StatusAwarded:
			if ctx.BidCount == 0 {
				return []workflows.Violation{{
					Code:    workflows.ViolationMissingField,
					Message: "Cannot award an RFQ that received no bids",
				}}
			}
		}
		return nil
	}
}

// NewWorkflow builds the RFQ state machine
func NewWorkflow(roles workflows.RoleHierarchy) (*workflows.StateMachine[Status, TransitionContext], error) {
	rules := map[Status]workflows.Rule[Status]{
		StatusDraft: {
			Action: "publish",
			Next:   []Status{StatusPublished, StatusCancelled},
		},
		StatusPublished: {
			Action: "open_bidding",
			Next:   []Status{StatusBidding, StatusCancelled, StatusExpired},
		},
		StatusBidding: {
			Action: "evaluate",
			Next:   []Status{StatusUnderEvaluation, StatusCancelled, StatusExpired},
		},
		StatusUnderEvaluation: {
			Action:       "award",
			Next:         []Status{StatusAwarded, StatusCancelled},
			RequiredRole: workflows.RoleManager,
		},
		StatusAwarded: {
			Action: "close",
			Next:   []Status{StatusClosed, StatusCancelled},
		},
		StatusClosed:    {Final: true},
		StatusCancelled: {Final: true},
		StatusExpired:   {Final: true},
	}
	return workflows.NewStateMachine(StatusDraft, rules, roles, PublishGuard())
}

// NewClassification buckets RFQ statuses for filtering and display
func NewClassification() workflows.Classification[Status] {
	categories := map[Status]workflows.Category{
		StatusDraft:           workflows.CategoryInitial,
		StatusPublished:       workflows.CategoryActive,
		StatusBidding:         workflows.CategoryActive,
		StatusUnderEvaluation: workflows.CategoryApproval,
		StatusAwarded:         workflows.CategoryCompletion,
		StatusClosed:          workflows.CategoryCompletion,
		StatusCancelled:       workflows.CategoryProblem,
		StatusExpired:         workflows.CategoryProblem,
	}
	editable := []Status{StatusDraft}
	progress := map[Status]int{
		StatusDraft:           10,
		StatusPublished:       30,
		StatusBidding:         50,
		StatusUnderEvaluation: 70,
		StatusAwarded:         90,
		StatusClosed:          100,
		StatusCancelled:       0,
		StatusExpired:         0,
	}
	return workflows.NewClassification(categories, editable, progress)
}
