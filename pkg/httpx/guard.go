package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/spectrelabs/authgate/pkg/jwtx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// Validator is the slice of the auth service the guard depends on.
type Validator interface {
	Validate(ctx context.Context, token string) (jwtx.Claims, error)
}

// GuardConfig controls how the guard classifies and enforces requests.
// It is read-only at request time.
type GuardConfig struct {
	// RequireAuth rejects any non-public request that carries no
	// token. When false, tokenless requests pass through anonymously
	// and handlers that need identity must use RequireAuth/RequireRole.
	RequireAuth bool

	// PublicPaths lists path prefixes reachable without a token
	// regardless of RequireAuth. The bare "/" entry matches only the
	// root path, not every path under it.
	PublicPaths []string
}

// IsPublic reports whether the path matches the public set.
func (c GuardConfig) IsPublic(path string) bool {
	for _, p := range c.PublicPaths {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Guard gates every inbound request before it reaches application
// logic. Public paths pass untouched; everything else either proceeds
// with an Identity attached, proceeds anonymously (soft mode, no token
// presented), or is rejected with 401 and a machine-readable kind.
//
// The guard itself never logs or persists credentials; only the
// validation failure kind is logged.
func Guard(v Validator, cfg GuardConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := ExtractToken(r)
			if !ok {
				if cfg.RequireAuth {
					WriteError(w, http.StatusUnauthorized, KindMissingToken)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Validate(ctx, token)
			if err != nil {
				kind := ErrorKind(err)
				slogx.FromContext(ctx).Warn("token rejected", "kind", kind)
				WriteError(w, http.StatusUnauthorized, kind)
				return
			}

			id := Identity{
				Subject: claims.Subject,
				Roles:   claims.Roles,
				Claims:  claims,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
		})
	}
}

// ExtractToken pulls a bearer token from the request, checking the
// Authorization header, then the X-API-Key header, then the api_token
// query parameter.
func ExtractToken(r *http.Request) (string, bool) {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
		return token, token != ""
	}

	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, true
	}

	if token := r.URL.Query().Get("api_token"); token != "" {
		return token, true
	}

	return "", false
}
