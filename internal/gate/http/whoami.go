package http

import (
	"net/http"

	"github.com/spectrelabs/authgate/pkg/httpx"
)

// WhoamiHandler serves GET /api/auth/whoami, echoing the authenticated
// identity. Always registered behind RequireAuth.
type WhoamiHandler struct{}

type whoamiResponse struct {
	UserID string         `json:"user_id"`
	Roles  []string       `json:"roles,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

func (h *WhoamiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth fronts this handler; reaching here anonymously
		// is a wiring bug, but respond safely anyway.
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, whoamiResponse{
		UserID: id.Subject,
		Roles:  id.Roles,
		Extra:  id.Claims.Extra,
	})
}
