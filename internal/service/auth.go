package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"formsapi/internal/auth"
	"formsapi/internal/model"
	"formsapi/internal/repository"
)

const minPasswordLength = 8

// AuthService handles email/password credentials and issues bearer tokens.
// Credentials are never stored in plain text.
type AuthService interface {
	// SignUp creates an account and returns a fresh session.
	SignUp(ctx context.Context, email, password string) (*model.Session, error)

	// Login verifies credentials and returns a fresh session. Wrong email or
	// password is ErrInvalidCredentials, never a generic failure.
	Login(ctx context.Context, email, password string) (*model.Session, error)
}

type authService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, secret []byte, tokenTTL time.Duration) AuthService {
	return &authService{users: users, secret: secret, tokenTTL: tokenTTL}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return email, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}

	return s.newSession(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *authService) newSession(user *model.User) (*model.Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        *user,
	}, nil
}
