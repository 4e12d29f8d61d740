package restapi

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"transitsnap.dev/internal/app"
	"transitsnap.dev/internal/appconf"
	"transitsnap.dev/internal/matcher"
	"transitsnap.dev/internal/timetable"
)

// createTestApi builds a RestAPI over an empty, already-published
// Snapshot — enough for middleware and routing tests that never need the
// matcher to actually find anything.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	registry := timetable.NewRegistry()
	registry.Publish(timetable.NewSnapshot())

	return buildTestApiOverRegistry(t, registry)
}

// buildTestApiOverRegistry builds a RestAPI over a caller-supplied
// Registry, for tests that need specific Stops/Trips/Graph fixtures.
func buildTestApiOverRegistry(t *testing.T, registry *timetable.Registry) *RestAPI {
	t.Helper()

	application := &app.Application{
		Config: appconf.Config{
			ApiKeys:   []string{"test"},
			RateLimit: 1000,
		},
		Timetable: registry,
		MatchConfig: matcher.Config{
			MaxDistKM: 1,
		},
	}

	return NewRestAPI(application)
}

// serveApiAndRetrieveEndpoint drives method+path+body through the
// RestAPI's full route/middleware chain and returns the raw response, for
// tests that only need to assert on status codes, headers or raw bodies.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	api.SetupAPIRoutes().ServeHTTP(rec, req)
	return rec
}
