package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no settings row exists for the user
var ErrNotFound = errors.New("settings not found")

// Repository handles database operations for user settings
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	UpsertProfile(ctx context.Context, profile *UserProfile) error

	GetNotifications(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error)
	UpsertNotifications(ctx context.Context, prefs *NotificationPreferences) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new settings repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	var profile UserProfile
	err := r.db.GetContext(ctx, &profile,
		`SELECT user_id, full_name, display_name, phone, language, timezone, created_at, updated_at
		 FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, full_name, display_name, phone, language, timezone, created_at, updated_at)
		VALUES (:user_id, :full_name, :display_name, :phone, :language, :timezone, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			display_name = EXCLUDED.display_name,
			phone = EXCLUDED.phone,
			language = EXCLUDED.language,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetNotifications(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	err := r.db.GetContext(ctx, &prefs,
		`SELECT user_id, email_enabled, realtime_enabled, purchase_orders, suppliers, rfqs, updated_at
		 FROM notification_preferences WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	return &prefs, nil
}

func (r *PostgresRepository) UpsertNotifications(ctx context.Context, prefs *NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, realtime_enabled, purchase_orders, suppliers, rfqs, updated_at)
		VALUES (:user_id, :email_enabled, :realtime_enabled, :purchase_orders, :suppliers, :rfqs, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			realtime_enabled = EXCLUDED.realtime_enabled,
			purchase_orders = EXCLUDED.purchase_orders,
			suppliers = EXCLUDED.suppliers,
			rfqs = EXCLUDED.rfqs,
			updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, prefs); err != nil {
		return fmt.Errorf("failed to upsert notification preferences: %w", err)
	}
	return nil
}
