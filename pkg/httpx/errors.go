package httpx

import (
	"errors"
	"net/http"

	"github.com/spectrelabs/authgate/pkg/jwtx"
)

// Machine-readable error kinds carried in rejection bodies. These are
// wire contract; response bodies never include key material, foreign
// claims or stack traces.
const (
	KindMalformed          = "malformed"
	KindInvalidSignature   = "invalid_signature"
	KindExpired            = "expired"
	KindRevoked            = "revoked"
	KindMissingToken       = "missing_token"
	KindInvalidCredentials = "invalid_credentials"
	KindUnauthorized       = "unauthorized"
	KindForbidden          = "forbidden"
)

// ErrorKind maps a token validation error onto its wire kind. Unknown
// errors deliberately collapse into "malformed" rather than leaking
// internals.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return KindExpired
	case errors.Is(err, jwtx.ErrRevoked):
		return KindRevoked
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, jwtx.ErrIssuer):
		// Signed for a different trust domain; not one of ours.
		return KindInvalidSignature
	default:
		return KindMalformed
	}
}

// WriteError writes the standard rejection body {"error": kind}.
func WriteError(w http.ResponseWriter, code int, kind string) {
	WriteJSON(w, code, map[string]string{"error": kind})
}
