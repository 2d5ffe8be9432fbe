// Package service holds the business rules layered over the token
// codec and the revocation store.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/spectrelabs/authgate/internal/gate/store"
	"github.com/spectrelabs/authgate/pkg/jwtx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// AuthService is the single authority for issuing and validating
// tokens. Stateless itself; the revocation store is the only shared
// mutable dependency.
type AuthService struct {
	Codec       *jwtx.Codec
	Revocations store.Revocations
	Issuer      string
	TokenTTL    time.Duration
}

// Issue mints a signed token for the subject with a fresh unique jti.
// No external I/O, so it only fails if signing itself does.
func (s *AuthService) Issue(
	subject string,
	roles []string,
	extra map[string]any,
) (string, jwtx.Claims, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	claims := jwtx.NewClaims(subject, roles, extra, ttl, s.Issuer, time.Now().UTC())

	token, err := s.Codec.Encode(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("encode token: %w", err)
	}
	return token, claims, nil
}

// Validate decodes the token and additionally rejects foreign issuers
// and revoked jtis. Codec errors pass through verbatim; a revocation
// store read failure fails closed rather than letting the token
// through.
func (s *AuthService) Validate(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return jwtx.Claims{}, err
	}

	if err := claims.ValidateIssuer(s.Issuer); err != nil {
		return jwtx.Claims{}, err
	}

	revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return jwtx.Claims{}, jwtx.ErrRevoked
	}

	return claims, nil
}

// Invalidate revokes the token before its natural expiry. Expiry
// failures are ignored on decode since a token may be logged out
// moments before it lapses. Returns the revoked claims; ok is false
// when the token could not be decoded at all, since there is nothing
// valid to revoke then.
func (s *AuthService) Invalidate(ctx context.Context, token string) (jwtx.Claims, bool) {
	claims, err := s.Codec.DecodeExpired(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return jwtx.Claims{}, false
	}

	if err := s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		slogx.FromContext(ctx).Error("revocation write failed", "err", err)
		return jwtx.Claims{}, false
	}
	return claims, true
}

// Refresh exchanges a still-valid token for a fresh one carrying the
// same subject, roles and extra claims, revoking the old token so the
// exchange can't be replayed.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, jwtx.Claims, error) {
	old, err := s.Validate(ctx, token)
	if err != nil {
		return "", jwtx.Claims{}, err
	}

	fresh, claims, err := s.Issue(old.Subject, old.Roles, old.Extra)
	if err != nil {
		return "", jwtx.Claims{}, err
	}

	s.Invalidate(ctx, token)
	return fresh, claims, nil
}
