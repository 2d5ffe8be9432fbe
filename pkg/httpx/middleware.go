// Package httpx holds the HTTP plumbing shared by the gate: the
// middleware chain, the access guard, role enforcement wrappers, JSON
// response helpers and per-key rate limiting.
package httpx

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares around h. The first middleware listed is
// the outermost, so Chain(h, a, b) runs a, then b, then h.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
