package httpx

import "net/http"

// RequireAuth rejects requests reaching the handler without an
// authenticated identity. Needed behind soft-mode guarding, where
// tokenless requests pass through anonymously.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			WriteError(w, http.StatusUnauthorized, KindUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole the caller must hold at least one of the provided roles.
// Composes with RequireAuth: anonymous requests get 401, authenticated
// requests without a matching role get 403.
func RequireRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, role := range required {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFromContext(r.Context())
			for _, role := range id.Roles {
				if _, ok := want[role]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, http.StatusForbidden, KindForbidden)
		}))
	}
}

// RequireAllRoles the caller must hold every role listed.
func RequireAllRoles(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFromContext(r.Context())

			have := make(map[string]struct{}, len(id.Roles))
			for _, role := range id.Roles {
				have[role] = struct{}{}
			}

			for _, role := range required {
				if _, ok := have[role]; !ok {
					WriteError(w, http.StatusForbidden, KindForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		}))
	}
}
