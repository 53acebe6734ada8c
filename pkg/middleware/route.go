package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routeContext returns the chi route pattern for the request, or "" when the
// request did not go through the router.
func routeContext(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
