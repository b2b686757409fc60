package settings

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the editable portion of a user's account
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Phone       string    `json:"phone" db:"phone"`
	Language    string    `json:"language" db:"language"`
	Timezone    string    `json:"timezone" db:"timezone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NotificationPreferences controls which status change events reach a user
type NotificationPreferences struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	EmailEnabled    bool      `json:"email_enabled" db:"email_enabled"`
	RealtimeEnabled bool      `json:"realtime_enabled" db:"realtime_enabled"`
	PurchaseOrders  bool      `json:"purchase_orders" db:"purchase_orders"`
	Suppliers       bool      `json:"suppliers" db:"suppliers"`
	RFQs            bool      `json:"rfqs" db:"rfqs"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Language    string `json:"language"`
	Timezone    string `json:"timezone"`
}

// UpdateNotificationsRequest is the payload for preference updates.
// Nil fields are left unchanged.
type UpdateNotificationsRequest struct {
	EmailEnabled    *bool `json:"email_enabled"`
	RealtimeEnabled *bool `json:"realtime_enabled"`
	PurchaseOrders  *bool `json:"purchase_orders"`
	Suppliers       *bool `json:"suppliers"`
	RFQs            *bool `json:"rfqs"`
}
