package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		Role:         workflows.RoleDirector,
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestLoginIssuesParsableToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, "test-secret", time.Hour, zap.NewNop())

	ctx := context.Background()
	user := testUser(t, "s3cret")
	mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	resp, err := service.Login(ctx, &LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.Actor.ID)
	assert.Equal(t, workflows.RoleDirector, resp.Actor.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	actor, err := service.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, user.Email, actor.Email)
	assert.Equal(t, workflows.RoleDirector, actor.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, "test-secret", time.Hour, zap.NewNop())

	ctx := context.Background()
	user := testUser(t, "s3cret")
	mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	_, err := service.Login(ctx, &LoginRequest{Email: user.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, "test-secret", time.Hour, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, ErrUserNotFound)

	_, err := service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	mockRepo := new(MockRepository)
	issuer := NewService(mockRepo, "secret-a", time.Hour, zap.NewNop())
	verifier := NewService(mockRepo, "secret-b", time.Hour, zap.NewNop())

	ctx := context.Background()
	user := testUser(t, "s3cret")
	mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	resp, err := issuer.Login(ctx, &LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(resp.Token)
	assert.Error(t, err)
}
