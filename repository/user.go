package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// UserRepository persists identities. GetByID omits the password hash;
// GetByEmail includes it and exists solely for credential verification.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
