package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spectrelabs/authgate/pkg/idx"
)

// DefaultTokenTTL is the token lifetime used when a service doesn't
// configure its own. A day matches the "log in once per shift" usage
// this gate was built for; latency-sensitive deployments should set
// something much shorter.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the signed contents of a bearer token. Keep changes
// additive so older tokens stay decodable across deploys.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject, e.g. ["admin", "user"].
	Roles []string `json:"roles,omitempty"`

	// Extra carries free-form scalar claims supplied at issuance.
	// Values round-trip through JSON, so numbers come back as float64.
	Extra map[string]any `json:"extra,omitempty"`
}

// NewClaims builds minimally-correct claims for a fresh token. The jti
// is a monotonic ULID, so it is unique per issuance even for the same
// subject in the same millisecond.
func NewClaims(
	subject string,
	roles []string,
	extra map[string]any,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Roles: roles,
		Extra: extra,
	}
}

// HasRole reports whether the subject holds the given role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ValidateIssuer checks the issuer claim against an expected value.
// An empty expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
