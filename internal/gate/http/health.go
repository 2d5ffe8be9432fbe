package http

import (
	"net/http"
	"time"

	"github.com/spectrelabs/authgate/internal/gate/store"
	"github.com/spectrelabs/authgate/pkg/httpx"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// LivezHandler is the liveness probe: 200 whenever the process runs.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler is the readiness probe: checks the revocation store is
// reachable, since validation fails closed without it.
func ReadyzHandler(startTime time.Time, version string, rev store.Revocations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"revocations": "ok"}
		status := "ok"
		code := http.StatusOK

		if err := rev.Ping(r.Context()); err != nil {
			checks["revocations"] = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
