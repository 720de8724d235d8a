package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
