package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/purchaseorders"
	"procureflow/procurement-portal/procurement-portal-backend/internal/suppliers"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) PurchaseOrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) OpenPurchaseOrderAmount(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) SupplierStatusCounts(ctx context.Context) ([]StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) RFQStatusCounts(ctx context.Context) ([]StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) RecentTransitions(ctx context.Context, limit int) ([]RecentTransition, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]RecentTransition), args.Error(1)
}

func (m *MockRepository) PipelineRows(ctx context.Context) ([]PipelineRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]PipelineRow), args.Error(1)
}

func (m *MockRepository) SupplierRiskRows(ctx context.Context) ([]RiskRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]RiskRow), args.Error(1)
}

func newReportsService(repo Repository) *Service {
	scorer := suppliers.NewRiskScorer(suppliers.DefaultRiskConfig())
	return NewService(repo, purchaseorders.NewClassification(), scorer, zap.NewNop())
}

func TestDashboardSummaryAggregates(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newReportsService(mockRepo)
	ctx := context.Background()

	mockRepo.On("PurchaseOrderStatusCounts", ctx).Return([]StatusCount{
		{Status: "draft", Count: 2},
		{Status: "ordered", Count: 1},
		{Status: "closed", Count: 1},
	}, nil)
	mockRepo.On("OpenPurchaseOrderAmount", ctx).Return(125_000.0, nil)
	mockRepo.On("SupplierStatusCounts", ctx).Return([]StatusCount{
		{Status: "active", Count: 3},
		{Status: "suspended", Count: 1},
	}, nil)
	mockRepo.On("SupplierRiskRows", ctx).Return([]RiskRow{
		{Status: "active", PerformanceRating: 5, OnTimeDeliveryPct: 98, FinancialHealth: 5},
		{Status: "suspended", PerformanceRating: 2, OnTimeDeliveryPct: 70, FinancialHealth: 2},
	}, nil)
	mockRepo.On("RFQStatusCounts", ctx).Return([]StatusCount{
		{Status: "bidding", Count: 2},
	}, nil)
	mockRepo.On("RecentTransitions", ctx, 20).Return([]RecentTransition{}, nil)

	summary, err := service.DashboardSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.PurchaseOrders.Total)
	assert.Equal(t, 125_000.0, summary.PurchaseOrders.OpenAmount)
	// (2*5 + 1*60 + 1*100) / 4 = 42
	assert.Equal(t, 42, summary.PurchaseOrders.AvgProgress)

	categories := map[string]int{}
	for _, c := range summary.PurchaseOrders.ByCategory {
		categories[c.Category] = c.Count
	}
	assert.Equal(t, 2, categories["initial"])
	assert.Equal(t, 1, categories["active"])
	assert.Equal(t, 1, categories["completion"])

	assert.Equal(t, 4, summary.Suppliers.Total)
	risks := map[string]int{}
	for _, r := range summary.Suppliers.ByRisk {
		risks[r.Level] = r.Count
	}
	// Risk distribution is derived from metrics, not the cached column.
	assert.Equal(t, 1, risks["low"])
	assert.Equal(t, 1, risks["critical"])

	assert.Equal(t, 2, summary.RFQs.Total)
	mockRepo.AssertExpectations(t)
}

func TestPipelineReportAddsDisplayMetadata(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newReportsService(mockRepo)
	ctx := context.Background()

	mockRepo.On("PipelineRows", ctx).Return([]PipelineRow{
		{PONumber: "PO-1", Status: "partially_received"},
		{PONumber: "PO-2", Status: "bogus"},
	}, nil)

	rows, err := service.PipelineReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Partially Received", rows[0].StatusLabel)
	assert.Equal(t, 75, rows[0].Progress)
	assert.Equal(t, "Unknown Status", rows[1].StatusLabel)
	assert.Equal(t, 0, rows[1].Progress)
}

func TestSupplierRiskReportDerivesScores(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newReportsService(mockRepo)
	ctx := context.Background()

	mockRepo.On("SupplierRiskRows", ctx).Return([]RiskRow{
		{Code: "SUP-1", Status: "blacklisted", PerformanceRating: 1, OnTimeDeliveryPct: 50, FinancialHealth: 1},
	}, nil)

	rows, err := service.SupplierRiskReport(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 23, rows[0].RiskPoints)
	assert.Equal(t, "critical", rows[0].RiskLevel)
	assert.Equal(t, "Blacklisted", rows[0].StatusLabel)
}
