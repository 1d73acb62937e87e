package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/identity"
	"github.com/servicehub/admin/internal/infrastructure/auth"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	auth.TokenPair
	User UserInfo `json:"user"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	auth.TokenPair
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// BootstrapInput describes the first administrator of a tenant
type BootstrapInput struct {
	TenantID uuid.UUID
	Username string
	Password string
	Email    string
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.GetDisplayNameOrUsername(),
		Email:       u.Email,
		LastLoginAt: u.LastLoginAt,
	}
}
