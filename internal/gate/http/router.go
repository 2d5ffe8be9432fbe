// Package http wires the gate's HTTP surface: the login/logout/refresh
// bindings, health probes, and the global middleware chain with the
// access guard in it.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spectrelabs/authgate/internal/gate/credentials"
	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/internal/gate/store"
	"github.com/spectrelabs/authgate/pkg/httpx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	auth        *service.AuthService
	credentials credentials.Source
	revocations store.Revocations

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(
	auth *service.AuthService,
	creds credentials.Source,
	revocations store.Revocations,
	guardCfg httpx.GuardConfig,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		auth:         auth,
		credentials:  creds,
		revocations:  revocations,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Global chain: request logging first, then the guard. Every
	// route below sees either an attached identity or an anonymous
	// pass-through, depending on guard mode and path class.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Guard(r.auth, guardCfg),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware
// chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /api/auth/login - strict limit by IP (brute force surface)
	login := &LoginHandler{Auth: r.auth, Credentials: r.credentials}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/auth/refresh - strict limit by IP (public path, token in body)
	refresh := &RefreshHandler{Auth: r.auth}
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/auth/logout - public path (expired tokens must still
	// reach the handler), so the limit is keyed by IP
	logout := &LogoutHandler{Auth: r.auth}
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /api/auth/whoami - demands identity even in soft mode
	whoami := &WhoamiHandler{}
	r.Mux.Handle("GET /api/auth/whoami",
		httpx.Chain(whoami,
			httpx.RequireAuth,
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health probes - lenient limits, monitors poll these
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /health",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.revocations),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
