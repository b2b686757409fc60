package reports

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/purchaseorders"
	"procureflow/procurement-portal/procurement-portal-backend/internal/suppliers"
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// Service assembles derived reporting views. Everything here is
// recomputed on demand; nothing is cached authoritatively.
type Service struct {
	repo             Repository
	poClassification workflows.Classification[purchaseorders.Status]
	scorer           suppliers.RiskScorer
	logger           *zap.Logger
}

// NewService creates a new reports service
func NewService(repo Repository, poClassification workflows.Classification[purchaseorders.Status], scorer suppliers.RiskScorer, logger *zap.Logger) *Service {
	return &Service{
		repo:             repo,
		poClassification: poClassification,
		scorer:           scorer,
		logger:           logger,
	}
}

// DashboardSummary builds the aggregate view behind the portal landing page
func (s *Service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: time.Now()}

	poCounts, err := s.repo.PurchaseOrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary.PurchaseOrders.ByStatus = poCounts

	categoryTotals := map[workflows.Category]int{}
	progressSum, total := 0, 0
	for _, c := range poCounts {
		total += c.Count
		status := purchaseorders.Status(c.Status)
		progressSum += s.poClassification.Progress(status) * c.Count
		if category, ok := s.poClassification.Category(status); ok {
			categoryTotals[category] += c.Count
		}
	}
	summary.PurchaseOrders.Total = total
	if total > 0 {
		summary.PurchaseOrders.AvgProgress = progressSum / total
	}
	for category, count := range categoryTotals {
		summary.PurchaseOrders.ByCategory = append(summary.PurchaseOrders.ByCategory, CategoryCount{
			Category: string(category),
			Count:    count,
		})
	}
	sort.Slice(summary.PurchaseOrders.ByCategory, func(i, j int) bool {
		return summary.PurchaseOrders.ByCategory[i].Count > summary.PurchaseOrders.ByCategory[j].Count
	})

	openAmount, err := s.repo.OpenPurchaseOrderAmount(ctx)
	if err != nil {
		return nil, err
	}
	summary.PurchaseOrders.OpenAmount = openAmount

	supplierCounts, err := s.repo.SupplierStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary.Suppliers.ByStatus = supplierCounts
	for _, c := range supplierCounts {
		summary.Suppliers.Total += c.Count
	}

	riskRows, err := s.repo.SupplierRiskRows(ctx)
	if err != nil {
		return nil, err
	}
	riskTotals := map[suppliers.RiskLevel]int{}
	for _, row := range riskRows {
		level := s.scorer.Score(suppliers.RiskInputs{
			Status:            suppliers.Status(row.Status),
			PerformanceRating: row.PerformanceRating,
			OnTimeDeliveryPct: row.OnTimeDeliveryPct,
			FinancialHealth:   row.FinancialHealth,
		})
		riskTotals[level]++
	}
	for _, level := range []suppliers.RiskLevel{suppliers.RiskLow, suppliers.RiskMedium, suppliers.RiskHigh, suppliers.RiskCritical} {
		if count, ok := riskTotals[level]; ok {
			summary.Suppliers.ByRisk = append(summary.Suppliers.ByRisk, RiskCount{
				Level: string(level),
				Count: count,
			})
		}
	}

	rfqCounts, err := s.repo.RFQStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary.RFQs.ByStatus = rfqCounts
	for _, c := range rfqCounts {
		summary.RFQs.Total += c.Count
	}

	transitions, err := s.repo.RecentTransitions(ctx, 20)
	if err != nil {
		return nil, err
	}
	summary.RecentTransitions = transitions

	return summary, nil
}

// PipelineReport returns the purchase order pipeline with display metadata
func (s *Service) PipelineReport(ctx context.Context) ([]PipelineRow, error) {
	rows, err := s.repo.PipelineRows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		status := purchaseorders.Status(rows[i].Status)
		rows[i].StatusLabel = status.DisplayName()
		rows[i].Progress = s.poClassification.Progress(status)
	}
	return rows, nil
}

// SupplierRiskReport returns supplier rows with freshly derived risk scores
func (s *Service) SupplierRiskReport(ctx context.Context) ([]RiskRow, error) {
	rows, err := s.repo.SupplierRiskRows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		status := suppliers.Status(rows[i].Status)
		inputs := suppliers.RiskInputs{
			Status:            status,
			PerformanceRating: rows[i].PerformanceRating,
			OnTimeDeliveryPct: rows[i].OnTimeDeliveryPct,
			FinancialHealth:   rows[i].FinancialHealth,
		}
		rows[i].StatusLabel = status.DisplayName()
		rows[i].RiskPoints = s.scorer.Points(inputs)
		rows[i].RiskLevel = string(s.scorer.Score(inputs))
	}
	return rows, nil
}
