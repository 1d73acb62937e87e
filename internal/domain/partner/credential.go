package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// CredentialRole is the portal permission level of a credential
type CredentialRole string

const (
	CredentialRoleOwner   CredentialRole = "owner"
	CredentialRoleManager CredentialRole = "manager"
	CredentialRoleViewer  CredentialRole = "viewer"
)

// IsValid reports whether the role is known
func (r CredentialRole) IsValid() bool {
	switch r {
	case CredentialRoleOwner, CredentialRoleManager, CredentialRoleViewer:
		return true
	}
	return false
}

// Credential is a login a company uses to access the client portal
type Credential struct {
	ID                   uuid.UUID
	Username             string
	Email                string
	Role                 CredentialRole
	PasswordHash         string
	Active               bool
	LastPasswordChangeAt time.Time
	CreatedAt            time.Time
}

// AddCredential creates a portal credential. password and confirm must match.
func (c *Company) AddCredential(hasher shared.PasswordHasher, username, email string, role CredentialRole, password, confirm string) (*Credential, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	for _, existing := range c.Credentials {
		if existing.Username == username {
			return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already used by this company")
		}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
		}
	}
	if role == "" {
		role = CredentialRoleViewer
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown credential role: "+string(role))
	}
	if err := shared.ValidateNewPassword(password, confirm); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.Credentials = append(c.Credentials, Credential{
		ID:                   uuid.New(),
		Username:             username,
		Email:                email,
		Role:                 role,
		PasswordHash:         hash,
		Active:               true,
		LastPasswordChangeAt: now,
		CreatedAt:            now,
	})
	c.IncrementVersion()

	cred := &c.Credentials[len(c.Credentials)-1]
	c.AddDomainEvent(NewCredentialChangedEvent(c, cred, "created"))
	return cred, nil
}

// ResetCredentialPassword sets a new password on an existing credential
func (c *Company) ResetCredentialPassword(hasher shared.PasswordHasher, credentialID uuid.UUID, password, confirm string) error {
	cred, err := c.credential(credentialID)
	if err != nil {
		return err
	}
	if err := shared.ValidateNewPassword(password, confirm); err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	cred.PasswordHash = hash
	cred.LastPasswordChangeAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCredentialChangedEvent(c, cred, "password_reset"))
	return nil
}

// SetCredentialActive enables or disables a credential
func (c *Company) SetCredentialActive(credentialID uuid.UUID, active bool) error {
	cred, err := c.credential(credentialID)
	if err != nil {
		return err
	}
	if cred.Active == active {
		return nil
	}

	cred.Active = active
	c.IncrementVersion()
	action := "disabled"
	if active {
		action = "enabled"
	}
	c.AddDomainEvent(NewCredentialChangedEvent(c, cred, action))
	return nil
}

// RemoveCredential deletes a credential
func (c *Company) RemoveCredential(credentialID uuid.UUID) error {
	for i := range c.Credentials {
		if c.Credentials[i].ID == credentialID {
			removed := c.Credentials[i]
			c.Credentials = append(c.Credentials[:i], c.Credentials[i+1:]...)
			c.IncrementVersion()
			c.AddDomainEvent(NewCredentialChangedEvent(c, &removed, "removed"))
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Credential not found")
}

func (c *Company) credential(id uuid.UUID) (*Credential, error) {
	for i := range c.Credentials {
		if c.Credentials[i].ID == id {
			return &c.Credentials[i], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Credential not found")
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must have between 3 and 50 characters")
	}
	for _, r := range username {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '.' && r != '_' && r != '-' {
			return shared.NewDomainError("INVALID_USERNAME", "Username can only contain lowercase letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}
