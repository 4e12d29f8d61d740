package gtfsload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	gogtfs "github.com/OneBusAway/go-gtfs"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

// fetch downloads (or reads, for a local file source) the raw GTFS static
// zip. Ported from the teacher's gtfs.rawGtfsData, minus the gtfstidy
// preprocessing step (not wired — see DESIGN.md).
func fetch(source string, isLocalFile bool, cfg Config) ([]byte, error) {
	if isLocalFile {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequest(http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}
	if cfg.StaticAuthHeaderKey != "" && cfg.StaticAuthHeaderValue != "" {
		req.Header.Set(cfg.StaticAuthHeaderKey, cfg.StaticAuthHeaderValue)
	}

	client := &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// Load downloads and parses a GTFS static feed, then builds a fully
// populated Timetable Snapshot from it (spec.md §3/§5, ported from the
// original's GTFSContainer construction). The Shape-Edge Graph, the
// EdgeTripSegmentIndex and every Trip's active-hour buckets are all built
// here, so the returned Snapshot is ready to Publish as-is.
func Load(source string, cfg Config) (*timetable.Snapshot, error) {
	isLocalFile := !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")

	raw, err := fetch(source, isLocalFile, cfg)
	if err != nil {
		return nil, err
	}

	static, err := gogtfs.ParseStatic(raw, gogtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return buildSnapshot(static)
}

func buildSnapshot(static *gogtfs.Static) (*timetable.Snapshot, error) {
	snap := timetable.NewSnapshot()

	for i := range static.Stops {
		s := &static.Stops[i]
		snap.Stops[s.Id] = &timetable.Stop{
			ID:       s.Id,
			Name:     s.Name,
			Location: geo.Coordinate{Lat: s.Lat, Lon: s.Lon},
		}
	}

	for i := range static.Routes {
		r := &static.Routes[i]
		snap.Routes[r.Id] = &timetable.Route{
			ID:        r.Id,
			ShortName: r.ShortName,
			Type:      int(r.Type),
			FillColor: normalizeColor(r.Color),
			TextColor: normalizeColor(r.TextColor),
		}
	}

	services := map[string]*timetable.Service{}
	for i := range static.Services {
		svc := &static.Services[i]
		services[svc.Id] = convertService(svc)
	}
	snap.Services = services

	shapePoints := map[string][]gogtfs.ShapePoint{}
	for i := range static.Shapes {
		sp := &static.Shapes[i]
		shapePoints[sp.ShapeID] = append(shapePoints[sp.ShapeID], *sp)
	}

	edgeSegmentsByShape := map[string]map[shapegraph.EdgeID][]int{}

	for i := range static.Trips {
		t := &static.Trips[i]
		stopTimes := make([]timetable.StopTime, 0, len(t.StopTimes))
		for _, st := range t.StopTimes {
			stopTimes = append(stopTimes, timetable.StopTime{
				StopID:    st.StopID,
				Sequence:  st.StopSequence,
				Arrival:   secondsToHMS(st.ArrivalTime),
				Departure: secondsToHMS(st.DepartureTime),
			})
		}

		serviceID := ""
		if t.Service != nil {
			serviceID = t.Service.Id
		}
		trip := &timetable.Trip{
			ID:        t.ID,
			RouteID:   t.RouteID,
			ServiceID: serviceID,
			ShapeID:   t.ShapeID,
			Headsign:  t.Headsign,
			StopTimes: stopTimes,
		}
		if svc, ok := services[trip.ServiceID]; ok {
			timetable.PrecomputeActiveHours(trip, svc.Weekdays)
		}
		snap.Trips[trip.ID] = trip
		snap.TripsByShape[trip.ShapeID] = append(snap.TripsByShape[trip.ShapeID], trip.ID)

		if _, already := edgeSegmentsByShape[trip.ShapeID]; already {
			continue
		}
		edgeSegmentsByShape[trip.ShapeID] = buildShapeEdges(snap, trip.ShapeID, shapePoints[trip.ShapeID])
	}

	for shapeID, edgeSegs := range edgeSegmentsByShape {
		hash := hashShapePoints(shapePoints[shapeID])
		snap.ShapeHashByID[shapeID] = hash
		if _, exists := snap.SegmentIndex[hash]; !exists {
			snap.SegmentIndex[hash] = &timetable.EdgeTripSegmentIndex{ShapeHash: hash, EdgeToSegments: edgeSegs}
		}
	}

	return snap, nil
}

func normalizeColor(c string) string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(c)
}

func secondsToHMS(totalSeconds int) timetable.HMS {
	return timetable.ParseHMS(totalSeconds/3600, (totalSeconds%3600)/60, totalSeconds%60)
}
