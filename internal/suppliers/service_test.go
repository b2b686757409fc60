package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, supplier *Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Supplier), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filters *Filters) ([]*Supplier, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*Supplier), args.Int(1), args.Error(2)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Supplier), args.Error(1)
}

func (m *MockRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, metrics *MetricsRequest, riskLevel RiskLevel) error {
	args := m.Called(ctx, id, metrics, riskLevel)
	return args.Error(0)
}

func (m *MockRepository) UpdateRiskLevel(ctx context.Context, id uuid.UUID, riskLevel RiskLevel) error {
	args := m.Called(ctx, id, riskLevel)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, action string, actorID uuid.UUID, actorRole, reason string, riskLevel RiskLevel) error {
	args := m.Called(ctx, id, from, to, action, actorID, actorRole, reason, riskLevel)
	return args.Error(0)
}

func newSupplierService(t *testing.T, repo Repository) *Service {
	t.Helper()
	workflow, err := NewWorkflow(workflows.DefaultRoleHierarchy())
	require.NoError(t, err)
	scorer := NewRiskScorer(DefaultRiskConfig())
	return NewService(repo, workflow, NewClassification(), scorer, nil, zap.NewNop())
}

func TestCreateScoresInitialRisk(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*suppliers.Supplier")).Return(nil)

	supplier, err := service.Create(ctx, &CreateRequest{
		Code:              "SUP-001",
		Name:              "Acme Industrial",
		OnTimeDeliveryPct: 95,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, supplier.Status)
	// Unset ratings default to the midpoint rather than scoring as worst case.
	assert.Equal(t, 3, supplier.PerformanceRating)
	assert.Equal(t, 3, supplier.FinancialHealth)
	// pending(3) + (6-3) + 0 + (6-3) = 9
	assert.Equal(t, RiskHigh, supplier.RiskLevel)
	mockRepo.AssertExpectations(t)
}

func TestGetRefreshesDerivedRisk(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	id := uuid.New()
	stored := &Supplier{
		ID:                id,
		Status:            StatusActive,
		PerformanceRating: 5,
		OnTimeDeliveryPct: 98,
		FinancialHealth:   5,
		RiskLevel:         RiskCritical, // stale cache
	}
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)

	supplier, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RiskLow, supplier.RiskLevel)
}

func TestTransitionRecomputesRiskFromMetricsNotCache(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	id := uuid.New()
	actorID := uuid.New()

	// Metrics say critical even though the cached column claims low.
	stored := &Supplier{
		ID:                id,
		Status:            StatusOnboarding,
		PerformanceRating: 1,
		OnTimeDeliveryPct: 50,
		FinancialHealth:   1,
		RiskLevel:         RiskLow,
	}
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)

	_, result, err := service.Transition(ctx, id, actorID, workflows.RoleAdmin, &TransitionRequest{ToStatus: StatusActive})

	require.NoError(t, err)
	assert.False(t, result.IsValid())
	found := false
	for _, v := range result.Violations {
		if v.Code == workflows.ViolationRiskBlocked {
			found = true
		}
	}
	assert.True(t, found, "activation must be blocked by recomputed critical risk")
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionPersistsRiskForNewStatus(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	id := uuid.New()
	actorID := uuid.New()

	stored := &Supplier{
		ID:                id,
		Status:            StatusOnboarding,
		PerformanceRating: 5,
		OnTimeDeliveryPct: 98,
		FinancialHealth:   5,
		RiskLevel:         RiskMedium,
	}
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)
	// active(1) + 1 + 0 + 1 = 3 -> low under the new status
	mockRepo.On("UpdateStatus", ctx, id, StatusOnboarding, StatusActive, "activate", actorID, "manager", "", RiskLow).Return(nil)

	supplier, result, err := service.Transition(ctx, id, actorID, workflows.RoleManager, &TransitionRequest{ToStatus: StatusActive})

	require.NoError(t, err)
	assert.True(t, result.IsValid())
	assert.Equal(t, StatusActive, supplier.Status)
	assert.Equal(t, RiskLow, supplier.RiskLevel)
	mockRepo.AssertExpectations(t)
}

func TestUpdateMetricsRefreshesRiskCache(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	id := uuid.New()
	stored := &Supplier{
		ID:                id,
		Status:            StatusActive,
		PerformanceRating: 5,
		OnTimeDeliveryPct: 98,
		FinancialHealth:   5,
		RiskLevel:         RiskLow,
	}
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)

	req := &MetricsRequest{PerformanceRating: 1, OnTimeDeliveryPct: 60, FinancialHealth: 2}
	// active(1) + (6-1) + 3 + (6-2) = 13 -> critical
	mockRepo.On("UpdateMetrics", ctx, id, req, RiskCritical).Return(nil)

	supplier, err := service.UpdateMetrics(ctx, id, req)
	require.NoError(t, err)
	assert.Equal(t, RiskCritical, supplier.RiskLevel)
	mockRepo.AssertExpectations(t)
}

func TestRiskAssessmentExposesInputsAndPoints(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	id := uuid.New()
	stored := &Supplier{
		ID:                id,
		Status:            StatusBlacklisted,
		PerformanceRating: 1,
		OnTimeDeliveryPct: 50,
		FinancialHealth:   1,
	}
	mockRepo.On("GetByID", ctx, id).Return(stored, nil)

	assessment, err := service.Risk(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RiskCritical, assessment.Level)
	assert.Equal(t, 23, assessment.Points)
	assert.Equal(t, StatusBlacklisted, assessment.Inputs.Status)
}

func TestRecomputeAllRiskUpdatesOnlyChangedRows(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newSupplierService(t, mockRepo)

	ctx := context.Background()
	fresh := &Supplier{
		ID:                uuid.New(),
		Status:            StatusActive,
		PerformanceRating: 5,
		OnTimeDeliveryPct: 98,
		FinancialHealth:   5,
		RiskLevel:         RiskLow,
	}
	stale := &Supplier{
		ID:                uuid.New(),
		Status:            StatusSuspended,
		PerformanceRating: 2,
		OnTimeDeliveryPct: 70,
		FinancialHealth:   2,
		RiskLevel:         RiskLow,
	}
	mockRepo.On("ListAll", ctx).Return([]*Supplier{fresh, stale}, nil)
	// suspended(5) + (6-2) + 3 + (6-2) = 16 -> critical
	mockRepo.On("UpdateRiskLevel", ctx, stale.ID, RiskCritical).Return(nil)

	updated, err := service.RecomputeAllRisk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "UpdateRiskLevel", ctx, fresh.ID, mock.Anything)
}
