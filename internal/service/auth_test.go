package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"formsapi/internal/auth"
	"formsapi/internal/model"
	repoMocks "formsapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "a@b.com" && u.ID != "" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
		})).Return(&model.User{ID: "user-1", Email: "a@b.com", PasswordHash: "hash"}, nil)

		session, err := svc.SignUp(ctx, "A@B.com ", "password123")

		require.NoError(t, err)
		assert.Equal(t, "bearer", session.TokenType)
		assert.Equal(t, int64(3600), session.ExpiresIn)
		assert.Equal(t, "a@b.com", session.User.Email)

		claims, err := auth.ParseToken(session.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		mUsers.AssertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository), testSecret, time.Hour)
		_, err := svc.SignUp(ctx, "not-an-email", "password123")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository), testSecret, time.Hour)
		_, err := svc.SignUp(ctx, "a@b.com", "short")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("backend failure stays generic", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("Create", ctx, mock.Anything).Return(nil, errors.New("duplicate email"))

		_, err := svc.SignUp(ctx, "a@b.com", "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "a@b.com", PasswordHash: string(hash)}

	t.Run("happy path", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)

		session, err := svc.Login(ctx, "a@b.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.Equal(t, "user-1", session.User.ID)
	})

	t.Run("wrong password is unauthenticated, not generic", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("FindByEmail", ctx, "a@b.com").Return(stored, nil)

		_, err := svc.Login(ctx, "a@b.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is unauthenticated", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("FindByEmail", ctx, "missing@b.com").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "missing@b.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("backend failure stays generic", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testSecret, time.Hour)

		mUsers.On("FindByEmail", ctx, "a@b.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, "a@b.com", "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
