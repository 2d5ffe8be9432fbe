package http

import (
	"encoding/json"
	"net/http"

	"github.com/spectrelabs/authgate/internal/gate/credentials"
	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/pkg/httpx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// LoginHandler serves POST /api/auth/login. Credential verification is
// delegated to the configured source; on success a fresh token is
// issued. Failures never reveal whether the username or the password
// was wrong.
type LoginHandler struct {
	Auth        *service.AuthService
	Credentials credentials.Source
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// TOTPCode is required only for users enrolled in a second factor.
	TOTPCode string `json:"totp_code,omitempty"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindMalformed)
		return
	}

	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindInvalidCredentials)
		return
	}

	user, ok := h.Credentials.VerifyCredentials(ctx, req.Username, req.Password)
	if !ok {
		log.Info("login failed", "username", req.Username)
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindInvalidCredentials)
		return
	}

	if mfa, enrolled := h.Credentials.(credentials.SecondFactorSource); enrolled &&
		mfa.RequiresTOTP(ctx, req.Username) {
		if !mfa.VerifyTOTP(ctx, req.Username, req.TOTPCode) {
			log.Info("login second factor failed", "username", req.Username)
			httpx.WriteError(w, http.StatusUnauthorized, httpx.KindInvalidCredentials)
			return
		}
	}

	token, _, err := h.Auth.Issue(user.ID, user.Roles, user.Extra)
	if err != nil {
		log.Error("token issuance failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	log.Info("login succeeded", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		UserID:    user.ID,
		TokenType: "Bearer",
	})
}
