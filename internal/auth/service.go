package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// ErrInvalidCredentials indicates a failed login attempt
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service issues and verifies access tokens
type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewService creates a new auth service
func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login verifies credentials and issues a signed token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("failed login attempt", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Actor: Actor{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// ParseToken verifies a token and returns the actor it identifies
func (s *Service) ParseToken(tokenString string) (*Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return &Actor{
		ID:    userID,
		Email: claims.Email,
		Role:  workflows.Role(claims.Role),
	}, nil
}
