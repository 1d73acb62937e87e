package identity

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// AggregateTypeUser names the user aggregate in events
const AggregateTypeUser = "User"

const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

// UserCreatedEvent is published when an administrator is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		UserID:          u.ID,
		Username:        u.Username,
	}
}

// UserPasswordChangedEvent is published after a password change
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID, u.TenantID),
		UserID:          u.ID,
	}
}
