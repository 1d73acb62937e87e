package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "#" + p, nil }
func (fakeHasher) Verify(h, p string) bool       { return h == "#"+p }

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(uuid.New(), fakeHasher{}, " Admin ", "admin1234")
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "#admin1234", u.PasswordHash)
	assert.True(t, u.CanLogin())
	require.Len(t, u.GetDomainEvents(), 1)

	_, err := NewUser(uuid.New(), fakeHasher{}, "ad", "admin1234")
	assert.Contains(t, err.Error(), "at least 3 characters")
	_, err = NewUser(uuid.New(), fakeHasher{}, "ad min", "admin1234")
	assert.Error(t, err)
	_, err = NewUser(uuid.New(), fakeHasher{}, "admin", "short")
	assert.Error(t, err)
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		u := newTestUser(t)
		err := u.ChangePassword(fakeHasher{}, "nope", "newpass123", "newpass123")
		assert.Contains(t, err.Error(), "Current password is incorrect")
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		u := newTestUser(t)
		err := u.ChangePassword(fakeHasher{}, "admin1234", "newpass123", "newpass124")
		assert.True(t, errors.Is(err, shared.ErrPasswordMismatch))
	})

	t.Run("reused password", func(t *testing.T) {
		u := newTestUser(t)
		err := u.ChangePassword(fakeHasher{}, "admin1234", "admin1234", "admin1234")
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("success", func(t *testing.T) {
		u := newTestUser(t)
		u.ClearDomainEvents()
		require.NoError(t, u.ChangePassword(fakeHasher{}, "admin1234", "newpass123", "newpass123"))
		assert.Equal(t, "#newpass123", u.PasswordHash)
		require.Len(t, u.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeUserPasswordChanged, u.GetDomainEvents()[0].EventType())
	})
}

func TestUser_LoginTracking(t *testing.T) {
	u := newTestUser(t)

	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.IsLocked())
	assert.False(t, u.CanLogin())

	past := time.Now().Add(-time.Second)
	u.LockedUntil = &past
	assert.False(t, u.IsLocked())

	u.RecordLoginSuccess("10.0.0.1")
	assert.Equal(t, UserStatusActive, u.Status)
	assert.Equal(t, 0, u.FailedAttempts)
	assert.NotNil(t, u.LastLoginAt)

	require.NoError(t, u.Deactivate())
	assert.False(t, u.CanLogin())
	assert.Error(t, u.Deactivate())
}
