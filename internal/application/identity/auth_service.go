package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/identity"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo       identity.UserRepository
	hasher         shared.PasswordHasher
	jwtService     *auth.JWTService
	revoker        *auth.TokenRevoker
	config         AuthServiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service. revoker may be nil, which
// turns logout into a client-side operation.
func NewAuthService(
	userRepo identity.UserRepository,
	hasher shared.PasswordHasher,
	jwtService *auth.JWTService,
	revoker *auth.TokenRevoker,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		revoker:    revoker,
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Login authenticates an administrator and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	s.logger.Info("Login attempt", zap.String("username", username))

	user, err := s.userRepo.FindByUsername(ctx, input.TenantID, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("username", username),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{TenantID: user.TenantID, UserID: user.ID, Username: user.Username})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the tokens are valid either way
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{TokenPair: *pair, User: toUserInfo(user)}, nil
}

// RefreshToken rotates a refresh token. The presented token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims)
		if err != nil {
			return nil, err
		}
		if revoked {
			s.logger.Warn("Revoked refresh token presented", zap.String("user_id", claims.UserID))
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	userID, _ := claims.UserUUID()
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{TenantID: user.TenantID, UserID: user.ID, Username: user.Username})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, claims); err != nil {
			s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	return &RefreshTokenResult{TokenPair: *pair}, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if s.revoker == nil {
		return nil
	}
	if access != nil {
		if err := s.revoker.Revoke(ctx, access); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(refreshToken)
		if err == nil {
			if err := s.revoker.Revoke(ctx, refresh); err != nil {
				return err
			}
		}
	}
	if access != nil {
		s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	}
	return nil
}

// GetCurrentUser returns the profile behind a token
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword verifies the current password and stores the confirmed new one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return err
	}

	if err := user.ChangePassword(s.hasher, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish password change", zap.Error(err))
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

// Bootstrap creates the first administrator when the tenant has no users.
// It returns false when users already exist.
func (s *AuthService) Bootstrap(ctx context.Context, input BootstrapInput) (bool, error) {
	count, err := s.userRepo.CountForTenant(ctx, input.TenantID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if input.Password == "" {
		return false, shared.NewDomainError("INVALID_PASSWORD", "Bootstrap admin password is not configured")
	}

	user, err := identity.NewUser(input.TenantID, s.hasher, input.Username, input.Password)
	if err != nil {
		return false, err
	}
	if err := user.SetProfile(input.Email, "Administrator"); err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish user creation", zap.Error(err))
	}

	s.logger.Info("Bootstrap administrator created",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("username", user.Username))
	return true, nil
}
