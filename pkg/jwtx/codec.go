package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed covers tokens that cannot be split or parsed at all.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrInvalidSignature means the payload was tampered with or signed
	// with a different key. HMAC comparison inside golang-jwt is
	// constant time, so this is safe to surface to callers.
	ErrInvalidSignature = errors.New("jwtx: invalid signature")

	// ErrExpired means the exp claim is in the past.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrRevoked means the token was explicitly invalidated before its
	// natural expiry. The codec never returns this itself; it is the
	// shared vocabulary for services layering revocation on top.
	ErrRevoked = errors.New("jwtx: token revoked")

	// ErrIssuer means the iss claim didn't match the expected issuer.
	ErrIssuer = errors.New("jwtx: issuer mismatch")

	// ErrEmptyKey is a startup-time configuration error, never a
	// runtime fallback.
	ErrEmptyKey = errors.New("jwtx: signing key must not be empty")
)

// RecommendedKeyBytes is the minimum key size we consider safe for
// HMAC-SHA256. Shorter keys still work but callers should warn.
const RecommendedKeyBytes = 32

// Codec turns Claims into signed HS256 tokens and back. Signature
// verification is the codec's whole job; revocation and any issuer
// policy are judged by the caller so the codec stays pure and testable
// without a clock or shared state.
type Codec struct {
	key    []byte
	method jwt.SigningMethod
}

// NewCodec creates an HMAC-SHA256 codec. An empty key is refused
// outright rather than degraded into some generated default.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return &Codec{key: key, method: jwt.SigningMethodHS256}, nil
}

// Encode serialises claims and signs them with the configured key.
// Deterministic for identical claims and key.
func (c *Codec) Encode(claims Claims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.key)
}

// Decode verifies the signature and standard time claims, returning
// the embedded Claims on success. Failures map onto the package
// sentinels: ErrMalformed, ErrInvalidSignature, ErrExpired.
func (c *Codec) Decode(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

// DecodeExpired verifies the signature but skips claim validation, so
// an expired token still yields its claims. Logout needs this: a token
// can be revoked moments before it would have lapsed naturally.
func (c *Codec) DecodeExpired(token string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(token, &claims, c.keyFunc); err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.key, nil
}

// mapParseError collapses golang-jwt's error tree into our sentinels.
// Anything unrecognised counts as malformed, which keeps the rejection
// path conservative.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
