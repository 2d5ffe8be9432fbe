package http

import (
	"net/http"

	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/pkg/httpx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// LogoutHandler serves POST /api/auth/logout. The route sits on the
// public set so the guard never pre-rejects the presented token;
// missing and unparseable tokens are gated here instead. Success means
// "this token will never validate again", so an already-expired or
// already-revoked token still logs out cleanly.
type LogoutHandler struct {
	Auth *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := httpx.ExtractToken(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindMissingToken)
		return
	}

	claims, ok := h.Auth.Invalidate(ctx, token)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindMalformed)
		return
	}

	slogx.FromContext(ctx).Info("logout", "user_id", claims.Subject)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
