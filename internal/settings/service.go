package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Service manages user profiles and notification preferences
type Service struct {
	repo Repository
}

// NewService creates a new settings service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the user's profile, or sensible defaults if none exists yet
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return &UserProfile{
			UserID:   userID,
			Language: "en",
			Timezone: "UTC",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies the update and returns the stored profile
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserProfile, error) {
	profile := &UserProfile{
		UserID:      userID,
		FullName:    req.FullName,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Language:    req.Language,
		Timezone:    req.Timezone,
	}
	if profile.Language == "" {
		profile.Language = "en"
	}
	if profile.Timezone == "" {
		profile.Timezone = "UTC"
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

// GetNotifications returns the user's preferences, defaulting to everything on
func (s *Service) GetNotifications(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	prefs, err := s.repo.GetNotifications(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return defaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdateNotifications merges the partial update over current preferences
func (s *Service) UpdateNotifications(ctx context.Context, userID uuid.UUID, req *UpdateNotificationsRequest) (*NotificationPreferences, error) {
	prefs, err := s.GetNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}
	if req.RealtimeEnabled != nil {
		prefs.RealtimeEnabled = *req.RealtimeEnabled
	}
	if req.PurchaseOrders != nil {
		prefs.PurchaseOrders = *req.PurchaseOrders
	}
	if req.Suppliers != nil {
		prefs.Suppliers = *req.Suppliers
	}
	if req.RFQs != nil {
		prefs.RFQs = *req.RFQs
	}

	if err := s.repo.UpsertNotifications(ctx, prefs); err != nil {
		return nil, err
	}
	return s.repo.GetNotifications(ctx, userID)
}

func defaultPreferences(userID uuid.UUID) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:          userID,
		EmailEnabled:    true,
		RealtimeEnabled: true,
		PurchaseOrders:  true,
		Suppliers:       true,
		RFQs:            true,
	}
}
