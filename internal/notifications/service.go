package notifications

import (
	"time"

	"go.uber.org/zap"
)

// Broadcaster pushes a message to every subscribed client
type Broadcaster interface {
	Broadcast(msg WebSocketMessage)
}

// Publisher is the surface entity services use to announce transitions
type Publisher interface {
	PublishStatusChange(event StatusChangeEvent)
}

// Service fans status-change events out to dashboard subscribers
type Service struct {
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewService creates a notification service
func NewService(broadcaster Broadcaster, logger *zap.Logger) *Service {
	return &Service{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// PublishStatusChange broadcasts a status change to connected clients.
// Publishing is best-effort; a full queue never fails the transition
// that triggered it.
func (s *Service) PublishStatusChange(event StatusChangeEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	s.logger.Info("status change",
		zap.String("entity_type", string(event.EntityType)),
		zap.String("entity_id", event.EntityID.String()),
		zap.String("from", event.FromStatus),
		zap.String("to", event.ToStatus),
		zap.String("actor_role", event.ActorRole))

	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(WebSocketMessage{
		Type:      WSMessageTypeStatusChange,
		Data:      event,
		Timestamp: event.OccurredAt,
	})
}
