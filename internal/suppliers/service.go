package suppliers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/notifications"
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// Service provides business logic for supplier operations
type Service struct {
	repo           Repository
	workflow       *workflows.StateMachine[Status, TransitionContext]
	classification workflows.Classification[Status]
	scorer         RiskScorer
	publisher      notifications.Publisher
	logger         *zap.Logger
}

// NewService creates a new supplier service
func NewService(repo Repository, workflow *workflows.StateMachine[Status, TransitionContext], classification workflows.Classification[Status], scorer RiskScorer, publisher notifications.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		workflow:       workflow,
		classification: classification,
		scorer:         scorer,
		publisher:      publisher,
		logger:         logger,
	}
}

// Create registers a new supplier at the workflow's initial status
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Supplier, error) {
	supplier := &Supplier{
		ID:                uuid.New(),
		Code:              req.Code,
		Name:              req.Name,
		Category:          req.Category,
		ContactEmail:      req.ContactEmail,
		Country:           req.Country,
		Status:            s.workflow.Initial(),
		PerformanceRating: defaultRating(req.PerformanceRating),
		OnTimeDeliveryPct: req.OnTimeDeliveryPct,
		FinancialHealth:   defaultRating(req.FinancialHealth),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	supplier.RiskLevel = s.scorer.Score(riskInputs(supplier))

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Get fetches a supplier, refreshing the derived risk level on the way out
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.RiskLevel = s.scorer.Score(riskInputs(supplier))
	return supplier, nil
}

// List returns suppliers matching the filters plus the total count
func (s *Service) List(ctx context.Context, filters *Filters) ([]*Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

// UpdateMetrics stores new performance inputs and recomputes the risk cache
func (s *Service) UpdateMetrics(ctx context.Context, id uuid.UUID, req *MetricsRequest) (*Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.PerformanceRating = req.PerformanceRating
	supplier.OnTimeDeliveryPct = req.OnTimeDeliveryPct
	supplier.FinancialHealth = req.FinancialHealth
	supplier.RiskLevel = s.scorer.Score(riskInputs(supplier))
	supplier.UpdatedAt = time.Now()

	if err := s.repo.UpdateMetrics(ctx, id, req, supplier.RiskLevel); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Risk recomputes the supplier's risk assessment on demand
func (s *Service) Risk(ctx context.Context, id uuid.UUID) (*RiskAssessment, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inputs := riskInputs(supplier)
	return &RiskAssessment{
		SupplierID: supplier.ID,
		Level:      s.scorer.Score(inputs),
		Points:     s.scorer.Points(inputs),
		Inputs:     inputs,
		ComputedAt: time.Now(),
	}, nil
}

// Transition validates and applies a status change. The risk level fed
// to the guards is recomputed from current metrics, not read from the
// cached column.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole workflows.Role, req *TransitionRequest) (*Supplier, workflows.Result, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, workflows.Result{}, err
	}

	if !s.workflow.IsKnown(supplier.Status) {
		s.logger.Warn("supplier has unknown status",
			zap.String("supplier_id", id.String()),
			zap.String("status", string(supplier.Status)))
	}

	currentRisk := s.scorer.Score(riskInputs(supplier))
	result := s.workflow.Validate(supplier.Status, req.ToStatus, actorRole, TransitionContext{RiskLevel: currentRisk})

	if rule, ok := s.workflow.Rule(supplier.Status); ok && rule.RequiresReason && strings.TrimSpace(req.Reason) == "" {
		result.Violations = append(result.Violations, workflows.Violation{
			Code:    workflows.ViolationMissingField,
			Message: fmt.Sprintf("A reason is required to %s a %s supplier", rule.Action, supplier.Status.DisplayName()),
		})
	}

	if !result.IsValid() {
		return supplier, result, nil
	}

	from := supplier.Status
	supplier.Status = req.ToStatus
	newRisk := s.scorer.Score(riskInputs(supplier))

	rule, _ := s.workflow.Rule(from)
	if err := s.repo.UpdateStatus(ctx, id, from, req.ToStatus, rule.Action, actorID, string(actorRole), req.Reason, newRisk); err != nil {
		return nil, workflows.Result{}, err
	}

	supplier.RiskLevel = newRisk
	supplier.UpdatedAt = time.Now()

	if s.publisher != nil {
		s.publisher.PublishStatusChange(notifications.StatusChangeEvent{
			EntityType: notifications.EntitySupplier,
			EntityID:   supplier.ID,
			FromStatus: string(from),
			ToStatus:   string(supplier.Status),
			Action:     rule.Action,
			ActorID:    actorID,
			ActorRole:  string(actorRole),
			Reason:     req.Reason,
			OccurredAt: supplier.UpdatedAt,
		})
	}

	return supplier, result, nil
}

// AllowedTransitions returns the next statuses the actor could legally
// move the supplier into right now
func (s *Service) AllowedTransitions(ctx context.Context, id uuid.UUID, actorRole workflows.Role) ([]StatusInfo, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctxData := TransitionContext{RiskLevel: s.scorer.Score(riskInputs(supplier))}
	var allowed []StatusInfo
	for _, next := range s.workflow.NextStatuses(supplier.Status) {
		if s.workflow.Validate(supplier.Status, next, actorRole, ctxData).IsValid() {
			allowed = append(allowed, s.StatusInfo(next))
		}
	}
	return allowed, nil
}

// RecomputeAllRisk refreshes every supplier's cached risk level and
// returns how many rows changed. Used by the risk worker.
func (s *Service) RecomputeAllRisk(ctx context.Context) (int, error) {
	suppliers, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, supplier := range suppliers {
		level := s.scorer.Score(riskInputs(supplier))
		if level == supplier.RiskLevel {
			continue
		}
		if err := s.repo.UpdateRiskLevel(ctx, supplier.ID, level); err != nil {
			return updated, err
		}
		s.logger.Info("supplier risk level changed",
			zap.String("supplier_id", supplier.ID.String()),
			zap.String("from", string(supplier.RiskLevel)),
			zap.String("to", string(level)))
		updated++
	}
	return updated, nil
}

// StatusInfo assembles the display metadata for a status
func (s *Service) StatusInfo(status Status) StatusInfo {
	category, _ := s.classification.Category(status)
	return StatusInfo{
		Status:      status,
		DisplayName: status.DisplayName(),
		Description: status.Description(),
		Category:    category,
		Editable:    s.classification.IsEditable(status),
		Progress:    s.classification.Progress(status),
		Final:       s.workflow.IsFinal(status),
	}
}

func riskInputs(supplier *Supplier) RiskInputs {
	return RiskInputs{
		Status:            supplier.Status,
		PerformanceRating: supplier.PerformanceRating,
		OnTimeDeliveryPct: supplier.OnTimeDeliveryPct,
		FinancialHealth:   supplier.FinancialHealth,
	}
}

func defaultRating(rating int) int {
	if rating == 0 {
		return 3
	}
	return rating
}
