package purchaseorders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/notifications"
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, po *PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PurchaseOrder), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filters *Filters) ([]*PurchaseOrder, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string) error {
	args := m.Called(ctx, id, from, to, action, actorID, actorRole, reason)
	return args.Error(0)
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	events []notifications.StatusChangeEvent
}

func (p *capturingPublisher) PublishStatusChange(event notifications.StatusChangeEvent) {
	p.events = append(p.events, event)
}

func newTestService(t *testing.T, repo Repository, publisher notifications.Publisher) *Service {
	t.Helper()
	workflow, err := NewWorkflow(workflows.DefaultRoleHierarchy(), DefaultApprovalLimits())
	require.NoError(t, err)
	return NewService(repo, workflow, NewClassification(), publisher, zap.NewNop())
}

func TestCreateStartsAtDraft(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*purchaseorders.PurchaseOrder")).Return(nil)

	po, err := service.Create(ctx, uuid.New(), &CreateRequest{
		PONumber:   "PO-2026-0001",
		SupplierID: uuid.New(),
		Amount:     1250,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDraft, po.Status)
	assert.Equal(t, "USD", po.Currency)
	mockRepo.AssertExpectations(t)
}

func TestTransitionAppliesAndPublishes(t *testing.T) {
	mockRepo := new(MockRepository)
	publisher := &capturingPublisher{}
	service := newTestService(t, mockRepo, publisher)

	ctx := context.Background()
	poID := uuid.New()
	actorID := uuid.New()
	stored := &PurchaseOrder{ID: poID, Status: StatusUnderReview, Amount: 75_000}

	mockRepo.On("GetByID", ctx, poID).Return(stored, nil)
	mockRepo.On("UpdateStatus", ctx, poID, StatusUnderReview, StatusApproved, "approve", actorID, "director", "").Return(nil)

	po, result, err := service.Transition(ctx, poID, actorID, workflows.RoleDirector, &TransitionRequest{ToStatus: StatusApproved})

	require.NoError(t, err)
	assert.True(t, result.IsValid())
	assert.Equal(t, StatusApproved, po.Status)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, notifications.EntityPurchaseOrder, event.EntityType)
	assert.Equal(t, "under_review", event.FromStatus)
	assert.Equal(t, "approved", event.ToStatus)
	assert.Equal(t, "director", event.ActorRole)

	mockRepo.AssertExpectations(t)
}

func TestTransitionInvalidLeavesRepositoryUntouched(t *testing.T) {
	mockRepo := new(MockRepository)
	publisher := &capturingPublisher{}
	service := newTestService(t, mockRepo, publisher)

	ctx := context.Background()
	poID := uuid.New()
	stored := &PurchaseOrder{ID: poID, Status: StatusDraft, Amount: 500}

	mockRepo.On("GetByID", ctx, poID).Return(stored, nil)

	po, result, err := service.Transition(ctx, poID, uuid.New(), workflows.RoleManager, &TransitionRequest{ToStatus: StatusApproved})

	require.NoError(t, err)
	assert.False(t, result.IsValid())
	assert.Equal(t, StatusDraft, po.Status, "stored status unchanged")
	assert.Empty(t, publisher.events)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionAmountGuardUsesStoredAmount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo, nil)

	ctx := context.Background()
	poID := uuid.New()
	stored := &PurchaseOrder{ID: poID, Status: StatusUnderReview, Amount: 75_000}

	mockRepo.On("GetByID", ctx, poID).Return(stored, nil)

	_, result, err := service.Transition(ctx, poID, uuid.New(), workflows.RoleManager, &TransitionRequest{ToStatus: StatusApproved})

	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationThresholdExceeded, result.Violations[0].Code)
}

func TestTransitionOutOfRejectedRequiresReason(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo, nil)

	ctx := context.Background()
	poID := uuid.New()
	actorID := uuid.New()
	stored := &PurchaseOrder{ID: poID, Status: StatusRejected, Amount: 500}

	mockRepo.On("GetByID", ctx, poID).Return(stored, nil)

	_, result, err := service.Transition(ctx, poID, actorID, workflows.RoleManager, &TransitionRequest{ToStatus: StatusDraft, Reason: "   "})
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, workflows.ViolationMissingField, result.Violations[0].Code)

	mockRepo.On("UpdateStatus", ctx, poID, StatusRejected, StatusDraft, "revise", actorID, "manager", "pricing updated").Return(nil)

	_, result, err = service.Transition(ctx, poID, actorID, workflows.RoleManager, &TransitionRequest{ToStatus: StatusDraft, Reason: "pricing updated"})
	require.NoError(t, err)
	assert.True(t, result.IsValid())
	mockRepo.AssertExpectations(t)
}

func TestAllowedTransitionsFilterByRoleAndAmount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(t, mockRepo, nil)

	ctx := context.Background()
	poID := uuid.New()
	stored := &PurchaseOrder{ID: poID, Status: StatusUnderReview, Amount: 50_000}

	mockRepo.On("GetByID", ctx, poID).Return(stored, nil)

	asManager, err := service.AllowedTransitions(ctx, poID, workflows.RoleManager)
	require.NoError(t, err)
	asDirector, err := service.AllowedTransitions(ctx, poID, workflows.RoleDirector)
	require.NoError(t, err)

	managerTargets := statusSet(asManager)
	directorTargets := statusSet(asDirector)

	// $50,000 exceeds the manager cap, so approval is off the menu for
	// managers but available to directors.
	assert.NotContains(t, managerTargets, StatusApproved)
	assert.Contains(t, managerTargets, StatusRejected)
	assert.Contains(t, directorTargets, StatusApproved)
}

func statusSet(infos []StatusInfo) map[Status]bool {
	set := make(map[Status]bool, len(infos))
	for _, info := range infos {
		set[info.Status] = true
	}
	return set
}
