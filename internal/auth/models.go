package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// User is a portal account
type User struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	FullName     string         `json:"full_name" db:"full_name"`
	Role         workflows.Role `json:"role" db:"role"`
	PasswordHash string         `json:"-" db:"password_hash"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated identity attached to each request
type Actor struct {
	ID    uuid.UUID      `json:"id"`
	Email string         `json:"email"`
	Role  workflows.Role `json:"role"`
}

// Claims is the JWT payload issued at login
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated actor
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Actor     Actor     `json:"actor"`
}
