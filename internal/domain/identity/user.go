package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// UserStatus represents the status of an administrator account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_\-.]+$`)

// User is a back-office administrator
type User struct {
	shared.TenantAggregateRoot
	Username          string
	Email             string
	DisplayName       string
	PasswordHash      string
	Status            UserStatus
	LastLoginAt       *time.Time
	LastLoginIP       string
	FailedAttempts    int
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// NewUser creates an active administrator
func NewUser(tenantID uuid.UUID, hasher shared.PasswordHasher, username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := shared.ValidateNewPassword(password, password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		PasswordHash:        hash,
		Status:              UserStatusActive,
		PasswordChangedAt:   &now,
	}

	u.AddDomainEvent(NewUserCreatedEvent(u))

	return u, nil
}

// SetProfile updates email and display name
func (u *User) SetProfile(email, displayName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.Email = email
	u.DisplayName = strings.TrimSpace(displayName)
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the current password and sets a confirmed new one
func (u *User) ChangePassword(hasher shared.PasswordHasher, current, newPassword, confirm string) error {
	if !hasher.Verify(u.PasswordHash, current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := shared.ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if current == newPassword {
		return shared.NewDomainError("PASSWORD_REUSED", "New password must differ from the current one")
	}
	hash, err := hasher.Hash(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and locks the account at maxAttempts.
// Returns true if the account was locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.IncrementVersion()

	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		return true
	}
	return false
}

// Deactivate disables the account permanently
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.IncrementVersion()
	return nil
}

// IsLocked returns true while a lock is in effect
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the account may authenticate
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}
