package notifications

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which lifecycle an event belongs to
type EntityType string

const (
	EntityPurchaseOrder EntityType = "purchase_order"
	EntitySupplier      EntityType = "supplier"
	EntityRFQ           EntityType = "rfq"
)

// StatusChangeEvent is published after a validated transition is persisted
type StatusChangeEvent struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
	Action     string     `json:"action"`
	ActorID    uuid.UUID  `json:"actor_id"`
	ActorRole  string     `json:"actor_role"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// WebSocketMessage is the envelope pushed to connected dashboard clients
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	WSMessageTypeStatusChange = "status_change"
	WSMessageTypeStatus       = "status"
)
