package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"transitsnap.dev/internal/timetable"
)

type connectionsRequest struct {
	Stop        string `json:"stop"`
	TripIDHint  string `json:"trip_id_hint"`
	AtEpochMS   int64  `json:"at_epoch_ms"`
}

// connectionsHandler implements POST /connections (spec.md §6): the next
// up-to-20 scheduled departures from a named stop, as the
// `{"0": entry, "1": entry, …, "length": N}` indexed object the original
// API shape uses.
func (api *RestAPI) connectionsHandler(w http.ResponseWriter, r *http.Request) {
	var req connectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.Stop == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stop must not be empty"})
		return
	}

	if !api.Timetable.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "timetable not ready"})
		return
	}
	snap := api.Timetable.Current()

	at := time.Now().UTC()
	if req.AtEpochMS > 0 {
		at = time.UnixMilli(req.AtEpochMS).UTC()
	}
	if tz := api.MatchConfig.Timezone; tz != nil {
		at = at.In(tz)
	}

	entries := timetable.Connections(snap, req.Stop, at, req.TripIDHint)

	body := make(map[string]any, len(entries)+1)
	for i, e := range entries {
		body[strconv.Itoa(i)] = []any{e.RouteShortName, e.Destination, e.RouteType, e.DepartureEpochMS, e.RouteColor, e.RouteTextColor}
	}
	body["length"] = len(entries)

	writeJSON(w, http.StatusOK, body)
}
