package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/pkg/httpx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// RefreshHandler serves POST /api/auth/refresh: exchanges a still-valid
// token for a fresh one and revokes the old one. The token comes from
// the request body, falling back to the usual carriers.
type RefreshHandler struct {
	Auth *service.AuthService
}

type refreshRequest struct {
	Token string `json:"token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	// An empty body is fine; header or query carriers still apply.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindMalformed)
		return
	}

	token := req.Token
	if token == "" {
		var ok bool
		if token, ok = httpx.ExtractToken(r); !ok {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.KindMissingToken)
			return
		}
	}

	fresh, claims, err := h.Auth.Refresh(ctx, token)
	if err != nil {
		kind := httpx.ErrorKind(err)
		log.Info("refresh rejected", "kind", kind)
		httpx.WriteError(w, http.StatusUnauthorized, kind)
		return
	}

	log.Info("token refreshed", "user_id", claims.Subject)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     fresh,
		UserID:    claims.Subject,
		TokenType: "Bearer",
	})
}
