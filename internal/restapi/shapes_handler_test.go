package restapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

func newShapesFixture(t *testing.T) *RestAPI {
	t.Helper()

	a := geo.Coordinate{Lat: 47.50, Lon: 7.50}
	b := geo.Coordinate{Lat: 47.51, Lon: 7.51}
	c := geo.Coordinate{Lat: 47.52, Lon: 7.52}

	graph := shapegraph.NewGraph()
	graph.AddEdge(a, b, shapegraph.ShapeRef{ShapeID: "shp1", SequenceNo: 1})
	graph.AddEdge(b, c, shapegraph.ShapeRef{ShapeID: "shp1", SequenceNo: 2})

	snap := timetable.NewSnapshot()
	snap.Graph = graph
	snap.Stops["s1"] = &timetable.Stop{ID: "s1", Name: "Origin", Location: a}
	snap.Stops["s2"] = &timetable.Stop{ID: "s2", Name: "Dest", Location: c}
	snap.Trips["T1"] = &timetable.Trip{
		ID: "T1",
		StopTimes: []timetable.StopTime{
			{StopID: "s1", Sequence: 1},
			{StopID: "s2", Sequence: 2},
		},
	}

	registry := timetable.NewRegistry()
	registry.Publish(snap)

	return buildTestApiOverRegistry(t, registry)
}

func TestShapesHandlerRejectsMalformedBody(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/shapes?key=test", []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShapesHandlerRejectsEmptyShapeID(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/shapes?key=test", []byte(`{"shape_id":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShapesHandlerReturnsNotFoundForUnknownShape(t *testing.T) {
	api := newShapesFixture(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/shapes?key=test", []byte(`{"shape_id":"nope"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShapesHandlerWalksShapeAndOrdersStops(t *testing.T) {
	api := newShapesFixture(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/shapes?key=test", []byte(`{"shape_id":"shp1","trip_id":"T1"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shapesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Polyline, 3)
	assert.InDelta(t, 47.50, resp.Polyline[0][0], 1e-9)
	assert.InDelta(t, 47.52, resp.Polyline[2][0], 1e-9)

	require.Len(t, resp.Stops, 2)
	assert.InDelta(t, 47.50, resp.Stops[0][0], 1e-9)
	assert.InDelta(t, 47.52, resp.Stops[1][0], 1e-9)

	assert.NotEmpty(t, resp.EncodedPolyline)
}

func TestShapesHandlerOmitsStopsWhenTripIDAbsent(t *testing.T) {
	api := newShapesFixture(t)
	defer api.Shutdown()

	rec := serveApiAndRetrieveEndpoint(t, api, "POST", "/shapes?key=test", []byte(`{"shape_id":"shp1"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shapesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Stops)
}
