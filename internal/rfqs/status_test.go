package rfqs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

func newRFQWorkflow(t *testing.T) *workflows.StateMachine[Status, TransitionContext] {
	t.Helper()
	workflow, err := NewWorkflow(workflows.DefaultRoleHierarchy())
	require.NoError(t, err)
	return workflow
}

func TestRFQWorkflowTableIsClosed(t *testing.T) {
	workflow := newRFQWorkflow(t)

	assert.Equal(t, StatusDraft, workflow.Initial())
	assert.Len(t, workflow.Statuses(), 8)

	for _, status := range workflow.Statuses() {
		for _, next := range workflow.NextStatuses(status) {
			assert.True(t, workflow.IsKnown(next))
		}
	}
}

func TestRFQTerminalStatuses(t *testing.T) {
	workflow := newRFQWorkflow(t)

	for _, status := range []Status{StatusClosed, StatusCancelled, StatusExpired} {
		assert.True(t, workflow.IsFinal(status), "%s should be terminal", status)
		assert.Empty(t, workflow.NextStatuses(status))
	}
}

func TestPublishRequiresBidDeadline(t *testing.T) {
	workflow := newRFQWorkflow(t)

	result := workflow.Validate(StatusDraft, StatusPublished, workflows.RoleManager, TransitionContext{})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationMissingField, result.Violations[0].Code)

	deadline := time.Now().Add(14 * 24 * time.Hour)
	result = workflow.Validate(StatusDraft, StatusPublished, workflows.RoleManager, TransitionContext{BidDeadline: &deadline})
	assert.True(t, result.IsValid())
}

func TestAwardRequiresBids(t *testing.T) {
	workflow := newRFQWorkflow(t)

	result := workflow.Validate(StatusUnderEvaluation, StatusAwarded, workflows.RoleManager, TransitionContext{BidCount: 0})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationMissingField, result.Violations[0].Code)

	result = workflow.Validate(StatusUnderEvaluation, StatusAwarded, workflows.RoleManager, TransitionContext{BidCount: 4})
	assert.True(t, result.IsValid())
}

func TestAwardRequiresManagerRole(t *testing.T) {
	workflow := newRFQWorkflow(t)

	result := workflow.Validate(StatusUnderEvaluation, StatusAwarded, "clerk", TransitionContext{BidCount: 0})
	// Insufficient role and the missing-bids guard surface together.
	require.Len(t, result.Violations, 2)
	assert.Equal(t, workflows.ViolationInsufficientRole, result.Violations[0].Code)
	assert.Equal(t, workflows.ViolationMissingField, result.Violations[1].Code)
}

func TestDraftCannotSkipToBidding(t *testing.T) {
	workflow := newRFQWorkflow(t)

	result := workflow.Validate(StatusDraft, StatusBidding, workflows.RoleAdmin, TransitionContext{})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationInvalidTransition, result.Violations[0].Code)
}

func TestRFQClassification(t *testing.T) {
	classification := NewClassification()

	category, ok := classification.Category(StatusBidding)
	require.True(t, ok)
	assert.Equal(t, workflows.CategoryActive, category)

	assert.True(t, classification.IsEditable(StatusDraft))
	assert.False(t, classification.IsEditable(StatusPublished))

	assert.Equal(t, 100, classification.Progress(StatusClosed))
	assert.Equal(t, 0, classification.Progress(StatusExpired))
}
