package restapi

import "net/http"

// shapeCacheSeconds bounds how long a /shapes response may be cached:
// shape geometry only changes on a static reload, which happens on the
// order of minutes, not seconds.
const shapeCacheSeconds = 60

// withMiddleware applies caching, rate limiting and compression around
// handler, after first validating the request's API key — the same chain
// the teacher's rateLimitAndValidateAPIKey builds. cacheSeconds <= 0 marks
// the response as not cacheable, the right default for /map-match and
// /connections, whose results are only valid for the instant they were computed.
func withMiddleware(api *RestAPI, handler http.HandlerFunc, cacheSeconds int) http.Handler {
	cached := CacheControlMiddleware(cacheSeconds, http.HandlerFunc(handler))
	compressed := CompressionMiddleware(cached)
	rateLimited := api.rateLimiter.Handler()(compressed)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			invalidAPIKeyResponse(w)
			return
		}
		rateLimited.ServeHTTP(w, r)
	})
}

// SetRoutes registers the Request Facade's three endpoints (spec.md §6)
// plus an unauthenticated health check.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", api.healthHandler)
	mux.Handle("GET /metrics", metricsHandler())

	mux.Handle("POST /map-match", withMiddleware(api, instrumented("map-match", api.mapMatchHandler), 0))
	mux.Handle("POST /connections", withMiddleware(api, instrumented("connections", api.connectionsHandler), 0))
	mux.Handle("POST /shapes", withMiddleware(api, instrumented("shapes", api.shapesHandler), shapeCacheSeconds))
}

// SetupAPIRoutes builds a mux with every route registered and the request
// ID and security-header middleware applied globally, the outermost layer
// of cmd/api/app.go's handler chain.
func (api *RestAPI) SetupAPIRoutes() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	return RequestIDMiddleware(api.WithSecurityHeaders(mux))
}
