// Package credentials models credential verification as a capability
// the surrounding system supplies. The gate never defines a user
// database of its own; the in-memory source here exists so the binary
// has something to verify against when seeded from config.
package credentials

import "context"

// UserRecord describes a verified principal.
type UserRecord struct {
	// ID is the stable subject identifier embedded in tokens.
	ID string

	// Roles granted to the principal.
	Roles []string

	// Extra claims to embed at issuance, e.g. a display name.
	Extra map[string]any
}

// Source verifies username/password pairs. Implementations must be
// safe for concurrent use and may be slow (remote directories, KDFs);
// callers must never hold a lock across a call. A false return carries
// no detail about which part of the credentials was wrong.
type Source interface {
	VerifyCredentials(ctx context.Context, username, password string) (UserRecord, bool)
}

// SecondFactorSource is implemented by sources whose users may be
// enrolled in TOTP. The login handler consults it after the password
// check.
type SecondFactorSource interface {
	Source

	// RequiresTOTP reports whether the user is enrolled.
	RequiresTOTP(ctx context.Context, username string) bool

	// VerifyTOTP validates a one-time code for an enrolled user.
	VerifyTOTP(ctx context.Context, username, code string) bool
}
