package suppliers

import (
	"fmt"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

var statusLabels = map[Status]string{
	StatusPending:     "Pending",
	StatusOnboarding:  "Onboarding",
	StatusActive:      "Active",
	StatusUnderReview: "Under Review",
	StatusSuspended:   "Suspended",
	StatusInactive:    "Inactive",
	StatusBlacklisted: "Blacklisted",
}

var statusDescriptions = map[Status]string{
	StatusPending:     "Supplier has been registered but not yet vetted",
	StatusOnboarding:  "Supplier is completing onboarding requirements",
	StatusActive:      "Supplier is approved for purchase orders",
	StatusUnderReview: "Supplier is being re-evaluated",
	StatusSuspended:   "Supplier is temporarily barred from new orders",
	StatusInactive:    "Supplier relationship is dormant",
	StatusBlacklisted: "Supplier is permanently barred from doing business",
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

// RiskGuard blocks unsafe activations: critical-risk suppliers cannot
// become active at all, and high or critical risk activations need
// director sign-off.
func RiskGuard(roles workflows.RoleHierarchy) workflows.Guard[Status, TransitionContext] {
	return func(from, to Status, actor workflows.Role, ctx TransitionContext) []workflows.Violation {
		if to != StatusActive && to != StatusOnboarding {
			return nil
		}

		var violations []workflows.Violation
		if to == StatusActive && ctx.RiskLevel == RiskCritical {
			violations = append(violations, workflows.Violation{
				Code:    workflows.ViolationRiskBlocked,
				Message: "Supplier cannot be activated while risk level is critical",
			})
		}
		if (ctx.RiskLevel == RiskHigh || ctx.RiskLevel == RiskCritical) && !roles.AtLeast(actor, workflows.RoleDirector) {
			violations = append(violations, workflows.Violation{
				Code: workflows.ViolationInsufficientRole,
				Message: fmt.Sprintf("Moving a %s risk supplier to %s requires director role or above",
					string(ctx.RiskLevel), string(to)),
			})
		}
		return violations
	}
}

// BlacklistGuard requires director sign-off to blacklist a supplier
func BlacklistGuard(roles workflows.RoleHierarchy) workflows.Guard[Status, TransitionContext] {
	return func(from, to Status, actor workflows.Role, ctx TransitionContext) []workflows.Violation {
		if to != StatusBlacklisted {
			return nil
		}
		if roles.AtLeast(actor, workflows.RoleDirector) {
			return nil
		}
		return []workflows.Violation{{
			Code:    workflows.ViolationInsufficientRole,
			Message: "Insufficient permissions: blacklisting a supplier requires director role or above",
		}}
	}
}

// NewWorkflow builds the supplier state machine
func NewWorkflow(roles workflows.RoleHierarchy) (*workflows.StateMachine[Status, TransitionContext], error) {
	rules := map[Status]workflows.Rule[Status]{
		StatusPending: {
			Action: "onboard",
			Next:   []Status{StatusOnboarding, StatusInactive},
		},
		StatusOnboarding: {
			Action: "activate",
			Next:   []Status{StatusActive, StatusSuspended, StatusInactive},
		},
		StatusActive: {
			Action: "review",
			Next:   []Status{StatusUnderReview, StatusSuspended, StatusInactive},
		},
		StatusUnderReview: {
			Action:       "resolve",
			Next:         []Status{StatusActive, StatusSuspended, StatusBlacklisted},
			RequiredRole: workflows.RoleManager,
		},
		StatusSuspended: {
			Action:         "resolve",
			Next:           []Status{StatusUnderReview, StatusActive, StatusBlacklisted, StatusInactive},
			RequiredRole:   workflows.RoleManager,
			RequiresReason: true,
		},
		StatusInactive: {
			Action: "reinstate",
			Next:   []Status{StatusOnboarding},
		},
		StatusBlacklisted: {Final: true},
	}
	return workflows.NewStateMachine(StatusPending, rules, roles, RiskGuard(roles), BlacklistGuard(roles))
}

// NewClassification buckets supplier statuses for filtering and display
func NewClassification() workflows.Classification[Status] {
	categories := map[Status]workflows.Category{
		StatusPending:     workflows.CategoryInitial,
		StatusOnboarding:  workflows.CategoryApproval,
		StatusActive:      workflows.CategoryActive,
		StatusUnderReview: workflows.CategoryProblem,
		StatusSuspended:   workflows.CategoryProblem,
		StatusInactive:    workflows.CategoryCompletion,
		StatusBlacklisted: workflows.CategoryProblem,
	}
	editable := []Status{StatusPending, StatusOnboarding}
	progress := map[Status]int{
		StatusPending:     10,
		StatusOnboarding:  40,
		StatusActive:      100,
		StatusUnderReview: 70,
		StatusSuspended:   50,
		StatusInactive:    0,
		StatusBlacklisted: 0,
	}
	return workflows.NewClassification(categories, editable, progress)
}
