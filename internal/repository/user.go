package repository

import (
	"context"

	"formsapi/internal/model"
)

// UserRepository defines data access for authentication accounts.
type UserRepository interface {
	// Create inserts a new user. The email must be unique.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns a user by normalized email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
