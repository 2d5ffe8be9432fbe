// Package store defines the revocation registry contract. The only
// shared mutable state in the subsystem lives behind this interface.
package store

import (
	"context"
	"time"
)

// Revocations records tokens invalidated before their natural expiry
// and answers whether a token ID is revoked. Implementations must be
// safe for concurrent use with read-after-write consistency per key:
// once Revoke returns, IsRevoked for that key reports true.
type Revocations interface {
	// Revoke marks the token ID revoked. Idempotent; revoking an
	// already-revoked or unknown ID is not an error. The expiry is the
	// token's own, so the entry can be garbage-collected once the
	// token would be rejected as expired anyway.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpired removes entries whose expiry has passed and
	// reports how many were dropped.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
