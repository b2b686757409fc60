package purchaseorders

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

// Service provides business logic for purchase order operations
type Service struct {
	repo           Repository
	workflow       *workflows.StateMachine[Status, TransitionContext]
	classification workflows.Classification[Status]
	publisher      notifications.Publisher
	logger         *zap.Logger
}

// NewService creates a new purchase order service
func NewService(repo Repository, workflow *workflows.StateMachine[Status, TransitionContext], classification workflows.Classification[Status], publisher notifications.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		workflow:       workflow,
		classification: classification,
		publisher:      publisher,
		logger:         logger,
	}
}

// Create stores a new purchase order at the workflow's initial status
func (s *Service) Create(ctx context.Context, requestedBy uuid.UUID, req *CreateRequest) (*PurchaseOrder, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	po := &PurchaseOrder{
		ID:           uuid.New(),
		PONumber:     req.PONumber,
		SupplierID:   req.SupplierID,
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     currency,
		Status:       s.workflow.Initial(),
		RequestedBy:  requestedBy,
		ExpectedDate: req.ExpectedDate,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Get fetches a purchase order by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns purchase orders matching the filters plus the total count
func (s *Service) List(ctx context.Context, filters *Filters) ([]*PurchaseOrder, int, error) {
	return s.repo.List(ctx, filters)
}

// Transition validates and applies a status change. Validation failures
// are returned as data in the Result; the error return is reserved for
// infrastructure problems. The repository is never touched when
// validation fails.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole workflows.Role, req *TransitionRequest) (*PurchaseOrder, workflows.Result, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, workflows.Result{}, err
	}

	if !s.workflow.IsKnown(po.Status) {
		// Stored status outside the registry points at upstream data corruption
		s.logger.Warn("purchase order has unknown status",
			zap.String("po_id", id.String()),
			zap.String("status", string(po.Status)))
	}

	result := s.workflow.Validate(po.Status, req.ToStatus, actorRole, TransitionContext{Amount: po.Amount})

	if rule, ok := s.workflow.Rule(po.Status); ok && rule.RequiresReason && strings.TrimSpace(req.Reason) == "" {
		result.Violations = append(result.Violations, workflows.Violation{
			Code:    workflows.ViolationMissingField,
			Message: fmt.Sprintf("A reason is required to %s a %s purchase order", rule.Action, po.Status.DisplayName()),
		})
	}

	if !result.IsValid() {
		return po, result, nil
	}

	rule, _ := s.workflow.Rule(po.Status)
	if err := s.repo.UpdateStatus(ctx, id, po.Status, req.ToStatus, rule.Action, actorID, string(actorRole), req.Reason); err != nil {
		return nil, workflows.Result{}, err
	}

	from := po.Status
	po.Status = req.ToStatus
	po.UpdatedAt = time.Now()

	if s.publisher != nil {
		s.publisher.PublishStatusChange(notifications.StatusChangeEvent{
			EntityType: notifications.EntityPurchaseOrder,
			EntityID:   po.ID,
			FromStatus: string(from),
			ToStatus:   string(po.Status),
			Action:     rule.Action,
			ActorID:    actorID,
			ActorRole:  string(actorRole),
			Reason:     req.Reason,
			OccurredAt: po.UpdatedAt,
		})
	}

	return po, result, nil
}

// AllowedTransitions returns the next statuses the actor could legally
// move the purchase order into right now
func (s *Service) AllowedTransitions(ctx context.Context, id uuid.UUID, actorRole workflows.Role) ([]StatusInfo, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctxData := TransitionContext{Amount: po.Amount}
	var allowed []StatusInfo
	for _, next := range s.workflow.NextStatuses(po.Status) {
		if s.workflow.Validate(po.Status, next, actorRole, ctxData).IsValid() {
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
