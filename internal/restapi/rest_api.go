// Package restapi implements the Request Facade (spec.md §6): the three
// HTTP JSON endpoints the matching core exposes, plus the middleware chain
// (API key validation, rate limiting, compression, caching, request IDs,
// security headers, metrics) ported from the teacher's own restapi package.
package restapi

import (
	"net/http"
	"time"

	"transitsnap.dev/internal/app"
)

// RestAPI is the HTTP surface over an Application, exactly as the teacher's
// RestAPI embeds *app.Application and owns its own rate limiter instance.
type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a RestAPI with an initialized rate limiter bound to
// the Application's configured requests-per-second.
func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, time.Second),
	}
}

// Shutdown stops the rate limiter's background cleanup loop. Safe to call
// more than once.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
