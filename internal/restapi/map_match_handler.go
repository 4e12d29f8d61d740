package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"transitsnap.dev/internal/matcher"
)

type mapMatchRequest struct {
	TripID      string   `json:"trip_id"`
	Coordinates []string `json:"coordinates"`
}

// mapMatchHandler implements POST /map-match (spec.md §6): parses the
// "<lat>,<lon>,<t_ms>" coordinate strings, runs the matching core, and
// returns its Result verbatim as JSON.
func (api *RestAPI) mapMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req mapMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	if len(req.Coordinates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "coordinates must not be empty"})
		return
	}

	fixes := make([]matcher.GPSFix, 0, len(req.Coordinates))
	for _, raw := range req.Coordinates {
		fix, ok := parseGPSFix(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed coordinate: " + raw})
			return
		}
		fixes = append(fixes, fix)
	}

	if !api.Timetable.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "timetable not ready"})
		return
	}
	snap := api.Timetable.Current()

	result := matcher.Match(snap, fixes, api.MatchConfig, req.TripID)
	if result == matcher.EmptyResult {
		emptyMatchesTotal.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

// parseGPSFix decodes one "<lat>,<lon>,<t_ms>" coordinate triple, per
// spec.md §6: t_ms is unsigned integer milliseconds UTC, divided by 1000
// to get the fix's time.
func parseGPSFix(raw string) (matcher.GPSFix, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return matcher.GPSFix{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return matcher.GPSFix{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return matcher.GPSFix{}, false
	}
	tMS, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return matcher.GPSFix{}, false
	}

	return matcher.GPSFix{
		Lat:  lat,
		Lon:  lon,
		Time: time.Unix(int64(tMS/1000), 0).UTC(),
	}, true
}
