package service_test

import (
	"context"
	"testing"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := func() *domain.User {
		return &domain.User{ID: "user-1", Email: "asha@test.com", Name: "Asha", PasswordHash: string(hash), Role: domain.UserRoleOwner}
	}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", mock.Anything, "asha@test.com").Return(user(), nil)
		tokens.On("GenerateAccessToken", "user-1", "asha@test.com", "owner").Return("access-token", nil)

		token, u, err := svc.Login(ctx, "asha@test.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "access-token", token)
		assert.Equal(t, "user-1", u.ID)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", mock.Anything, "asha@test.com").Return(user(), nil)

		_, _, err := svc.Login(ctx, "asha@test.com", "nope")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(ctx, "ghost@test.com", "secret123")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Missing credentials", func(t *testing.T) {
		svc := service.NewAuthService(new(MockUserRepo), new(MockTokenManager))

		_, _, err := svc.Login(ctx, "", "")
		assert.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		tokens.On("ValidateToken", "good").Return(&security.UserClaims{UserID: "user-1"}, nil)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)

		u, err := svc.Authenticate(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("Invalid token", func(t *testing.T) {
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(new(MockUserRepo), tokens)

		tokens.On("ValidateToken", "bad").Return(nil, security.ErrInvalidToken)

		_, err := svc.Authenticate(ctx, "bad")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, "Not authorized", err.Error())
	})

	t.Run("Deleted user", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		tokens.On("ValidateToken", "good").Return(&security.UserClaims{UserID: "user-9"}, nil)
		userRepo.On("GetByID", mock.Anything, "user-9").Return(nil, repository.ErrNotFound)

		_, err := svc.Authenticate(ctx, "good")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
