package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for administrator persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	Save(ctx context.Context, user *User) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
