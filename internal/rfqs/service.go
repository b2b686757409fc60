package rfqs

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

// Service provides business logic for RFQ operations
type Service struct {
	repo           Repository
	workflow       *workflows.StateMachine[Status, TransitionContext]
	classification workflows.Classification[Status]
	publisher      notifications.Publisher
	logger         *zap.Logger
}

// NewService creates a new RFQ service
func NewService(repo Repository, workflow *workflows.StateMachine[Status, TransitionContext], classification workflows.Classification[Status], publisher notifications.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		workflow:       workflow,
		classification: classification,
		publisher:      publisher,
		logger:         logger,
	}
}

// Create stores a new RFQ at the workflow's initial status
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateRequest) (*RFQ, error) {
	rfq := &RFQ{
		ID:          uuid.New(),
		RFQNumber:   req.RFQNumber,
		Title:       req.Title,
		Description: req.Description,
		Status:      s.workflow.Initial(),
		BidDeadline: req.BidDeadline,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

// Get fetches an RFQ by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RFQ, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns RFQs matching the filters plus the total count
func (s *Service) List(ctx context.Context, filters *Filters) ([]*RFQ, int, error) {
	return s.repo.List(ctx, filters)
}

// Transition validates and applies a status change
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole workflows.Role, req *TransitionRequest) (*RFQ, workflows.Result, error) {
	rfq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, workflows.Result{}, err
	}

	if !s.workflow.IsKnown(rfq.Status) {
		s.logger.Warn("rfq has unknown status",
			zap.String("rfq_id", id.String()),
			zap.String("status", string(rfq.Status)))
	}

	ctxData := TransitionContext{BidDeadline: rfq.BidDeadline, BidCount: rfq.BidCount}
	result := s.workflow.Validate(rfq.Status, req.ToStatus, actorRole, ctxData)

	if rule, ok := s.workflow.Rule(rfq.Status); ok && rule.RequiresReason && strings.TrimSpace(req.Reason) == "" {
		result.Violations = append(result.Violations, workflows.Violation{
			Code:    workflows.ViolationMissingField,
			Message: fmt.Sprintf("A reason is required to %s a %s RFQ", rule.Action, rfq.Status.DisplayName()),
		})
	}

	if !result.IsValid() {
		return rfq, result, nil
	}

	rule, _ := s.workflow.Rule(rfq.Status)
	if err := s.repo.UpdateStatus(ctx, id, rfq.Status, req.ToStatus, rule.Action, actorID, string(actorRole), req.Reason); err != nil {
		return nil, workflows.Result{}, err
	}

	from := rfq.Status
	rfq.Status = req.ToStatus
	rfq.UpdatedAt = time.Now()

	if s.publisher != nil {
		s.publisher.PublishStatusChange(notifications.StatusChangeEvent{
			EntityType: notifications.EntityRFQ,
			EntityID:   rfq.ID,
			FromStatus: string(from),
			ToStatus:   string(rfq.Status),
			Action:     rule.Action,
			ActorID:    actorID,
			ActorRole:  string(actorRole),
			Reason:     req.Reason,
			OccurredAt: rfq.UpdatedAt,
		})
	}

	return rfq, result, nil
}

// AllowedTransitions returns the next statuses the actor could legally
// move the RFQ into right now
func (s *Service) AllowedTransitions(ctx context.Context, id uuid.UUID, actorRole workflows.Role) ([]StatusInfo, error) {
	rfq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctxData := TransitionContext{BidDeadline: rfq.BidDeadline, BidCount: rfq.BidCount}
	var allowed []StatusInfo
	for _, next := range s.workflow.NextStatuses(rfq.Status) {
		if s.workflow.Validate(rfq.Status, next, actorRole, ctxData).IsValid() {
			allowed = append(allowed, s.StatusInfo(next))
		}
	}
	return allowed, nil
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
