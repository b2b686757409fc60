package purchaseorders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

func newTestWorkflow(t *testing.T) *workflows.StateMachine[Status, TransitionContext] {
	t.Helper()
	workflow, err := NewWorkflow(workflows.DefaultRoleHierarchy(), DefaultApprovalLimits())
	require.NoError(t, err)
	return workflow
}

func TestWorkflowTableIsClosed(t *testing.T) {
	workflow := newTestWorkflow(t)

	assert.Equal(t, StatusDraft, workflow.Initial())
	assert.Len(t, workflow.Statuses(), 12)

	for _, status := range workflow.Statuses() {
		for _, next := range workflow.NextStatuses(status) {
			assert.True(t, workflow.IsKnown(next), "%s transitions to unregistered %s", status, next)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	workflow := newTestWorkflow(t)

	assert.True(t, workflow.IsFinal(StatusClosed))
	assert.True(t, workflow.IsFinal(StatusCancelled))
	assert.Empty(t, workflow.NextStatuses(StatusClosed))
	assert.Empty(t, workflow.NextStatuses(StatusCancelled))

	result := workflow.Validate(StatusClosed, StatusDraft, workflows.RoleAdmin, TransitionContext{})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationInvalidTransition, result.Violations[0].Code)
}

func TestSubmitDraftWithinLimit(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusDraft, StatusPendingApproval, workflows.RoleManager, TransitionContext{Amount: 500})
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Violations)
}

func TestDraftCannotSkipToApproved(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusDraft, StatusApproved, workflows.RoleManager, TransitionContext{Amount: 500})
	assert.False(t, result.IsValid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "Invalid status transition from draft to approved", result.Violations[0].Message)
}

func TestManagerCannotApproveAboveLimit(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleManager, TransitionContext{Amount: 75_000})
	assert.False(t, result.IsValid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationThresholdExceeded, result.Violations[0].Code)
	assert.Contains(t, result.Violations[0].Message, "exceeds approval limit")
}

func TestDirectorApprovesAboveManagerLimit(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleDirector, TransitionContext{Amount: 75_000})
	assert.True(t, result.IsValid())
}

func TestApprovalLimitBoundaries(t *testing.T) {
	workflow := newTestWorkflow(t)

	// Exactly at the limit passes; one cent over fails.
	result := workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleManager, TransitionContext{Amount: 10_000})
	assert.True(t, result.IsValid())

	result = workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleManager, TransitionContext{Amount: 10_000.01})
	assert.False(t, result.IsValid())

	result = workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleDirector, TransitionContext{Amount: 100_000.01})
	assert.False(t, result.IsValid())

	// Admin carries no cap.
	result = workflow.Validate(StatusUnderReview, StatusApproved, workflows.RoleAdmin, TransitionContext{Amount: 5_000_000})
	assert.True(t, result.IsValid())
}

func TestAmountGuardOnlyAppliesToApproval(t *testing.T) {
	workflow := newTestWorkflow(t)

	// A large amount does not block non-approval moves.
	result := workflow.Validate(StatusDraft, StatusPendingApproval, workflows.RoleManager, TransitionContext{Amount: 500_000})
	assert.True(t, result.IsValid())

	result = workflow.Validate(StatusApproved, StatusOrdered, workflows.RoleManager, TransitionContext{Amount: 500_000})
	assert.True(t, result.IsValid())
}

func TestReviewRequiresManagerRole(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusUnderReview, StatusRejected, "clerk", TransitionContext{})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationInsufficientRole, result.Violations[0].Code)
	assert.Contains(t, result.Violations[0].Message, "requires manager role or above")
}

func TestRoleAndThresholdViolationsCollectTogether(t *testing.T) {
	workflow := newTestWorkflow(t)

	result := workflow.Validate(StatusUnderReview, StatusApproved, "clerk", TransitionContext{Amount: 75_000})
	require.Len(t, result.Violations, 1)
	// Unknown actor fails the role check; the amount guard has no cap
	// entry for an unknown role so only the role violation surfaces.
	assert.Equal(t, workflows.ViolationInsufficientRole, result.Violations[0].Code)
}

func TestRejectedRequiresReasonToRevise(t *testing.T) {
	workflow := newTestWorkflow(t)

	rule, ok := workflow.Rule(StatusRejected)
	require.True(t, ok)
	assert.True(t, rule.RequiresReason)
	assert.Equal(t, "revise", rule.Action)
}

func TestHoldStatesResumeBeforeCompletion(t *testing.T) {
	workflow := newTestWorkflow(t)

	// Neither hold state may jump straight to a completion status.
	for _, from := range []Status{StatusOnHold, StatusAwaitingInfo} {
		for _, to := range []Status{StatusReceived, StatusClosed} {
			result := workflow.Validate(from, to, workflows.RoleAdmin, TransitionContext{})
			assert.False(t, result.IsValid(), "%s must not reach %s directly", from, to)
		}
	}
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Pending Approval", StatusPendingApproval.DisplayName())
	assert.Equal(t, "Unknown Status", Status("bogus").DisplayName())
	assert.Equal(t, "Unknown Status", Status("bogus").Description())
}

func TestClassificationBuckets(t *testing.T) {
	classification := NewClassification()

	category, ok := classification.Category(StatusDraft)
	require.True(t, ok)
	assert.Equal(t, workflows.CategoryInitial, category)

	category, _ = classification.Category(StatusOnHold)
	assert.Equal(t, workflows.CategoryProblem, category)

	category, _ = classification.Category(StatusReceived)
	assert.Equal(t, workflows.CategoryCompletion, category)

	assert.True(t, classification.IsEditable(StatusDraft))
	assert.True(t, classification.IsEditable(StatusRejected))
	assert.True(t, classification.IsEditable(StatusAwaitingInfo))
	assert.False(t, classification.IsEditable(StatusApproved))

	assert.Equal(t, 100, classification.Progress(StatusClosed))
	assert.Equal(t, 0, classification.Progress(StatusCancelled))
	assert.Less(t, classification.Progress(StatusDraft), classification.Progress(StatusOrdered))
}
