package shared

import "unicode"

// PasswordHasher hashes and verifies secrets
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// ErrPasswordMismatch is returned when a password and its confirmation differ
var ErrPasswordMismatch = NewDomainError("PASSWORD_MISMATCH", "Password and confirmation do not match")

// ValidateNewPassword checks confirmation and strength of a new password
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return NewDomainError("WEAK_PASSWORD", "Password cannot exceed 72 characters")
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return NewDomainError("WEAK_PASSWORD", "Password must contain letters and digits")
	}
	return nil
}
