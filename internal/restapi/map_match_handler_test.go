package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMatchHandlerRejectsMalformedBody(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/map-match?key=test", []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapMatchHandlerRejectsEmptyCoordinates(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/map-match?key=test", []byte(`{"trip_id":"T1","coordinates":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapMatchHandlerRejectsMalformedCoordinate(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/map-match?key=test", []byte(`{"coordinates":["47.5,7.5"]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapMatchHandlerRejectsInvalidAPIKey(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/map-match?key=wrong", []byte(`{"coordinates":["47.5,7.5,1000"]}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMapMatchHandlerReturnsEmptyResultWhenNothingMatches(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/map-match?key=test", []byte(`{"coordinates":["47.5,7.5,1000"]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trip_id":""`)
}

func TestParseGPSFixRejectsWrongFieldCount(t *testing.T) {
	_, ok := parseGPSFix("47.5,7.5")
	assert.False(t, ok)
}

func TestParseGPSFixParsesValidTriple(t *testing.T) {
	fix, ok := parseGPSFix("47.5,7.5,1690000000000")
	require.True(t, ok)
	assert.InDelta(t, 47.5, fix.Lat, 1e-9)
	assert.InDelta(t, 7.5, fix.Lon, 1e-9)
}
