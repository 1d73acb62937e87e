package auth

import (
	"context"

	"github.com/servicehub/admin/internal/domain/shared"
)

// TokenRevoker remembers revoked token ids until they would have expired.
// It is backed by the same key store used for Idempotency-Key, so it is
// shared across instances when that store is Redis.
type TokenRevoker struct {
	store shared.IdempotencyStore
}

// NewTokenRevoker creates a revoker on top of a key store
func NewTokenRevoker(store shared.IdempotencyStore) *TokenRevoker {
	return &TokenRevoker{store: store}
}

// Revoke marks the token id of claims as revoked for its remaining lifetime
func (r *TokenRevoker) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	_, err := r.store.MarkProcessed(ctx, "revoked:"+claims.ID, ttl)
	return err
}

// IsRevoked reports whether the token id was revoked
func (r *TokenRevoker) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	return r.store.IsProcessed(ctx, "revoked:"+claims.ID)
}
