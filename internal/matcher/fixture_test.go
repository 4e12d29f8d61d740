package matcher

import (
	"time"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

// fixture is a minimal two-edge, one-trip network used across the matcher
// package's end-to-end tests: a straight shape A -> B -> C, one trip
// running it once a day, with stops at each vertex.
type fixture struct {
	snap          *timetable.Snapshot
	a, b, c       geo.Coordinate
	edgeAB, edgeBC *shapegraph.Edge
}

// newFixture builds the Timetable Snapshot a single request would see:
// graph, stops, route, service, trip and segment index all wired together,
// mirroring what the Timetable Loader would produce from a tiny GTFS feed.
func newFixture() *fixture {
	snap := timetable.NewSnapshot()

	a := geo.Coordinate{Lat: 0, Lon: 0}
	bLat, bLon := geo.OffsetMeters(0, 0, 0, 111)
	b := geo.Coordinate{Lat: bLat, Lon: bLon}
	cLat, cLon := geo.OffsetMeters(0, 0, 0, 222)
	c := geo.Coordinate{Lat: cLat, Lon: cLon}

	edgeAB := snap.Graph.AddEdge(a, b, shapegraph.ShapeRef{ShapeID: "S1", SequenceNo: 0})
	edgeBC := snap.Graph.AddEdge(b, c, shapegraph.ShapeRef{ShapeID: "S1", SequenceNo: 1})

	snap.Stops["stopA"] = &timetable.Stop{ID: "stopA", Name: "First St", Location: a}
	snap.Stops["stopB"] = &timetable.Stop{ID: "stopB", Name: "Second St", Location: b}
	snap.Stops["stopC"] = &timetable.Stop{ID: "stopC", Name: "Third St", Location: c}

	snap.Routes["R1"] = &timetable.Route{ID: "R1", ShortName: "1", Type: 3, FillColor: "FFFFFF", TextColor: "000000"}

	svc := &timetable.Service{
		ID:         "SVC1",
		Weekdays:   [7]bool{true, true, true, true, true, true, true},
		StartDate:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		ExtraDates: map[string]bool{},
		RemovedDates: map[string]bool{},
	}
	snap.Services["SVC1"] = svc

	trip := &timetable.Trip{
		ID: "T1", RouteID: "R1", ServiceID: "SVC1", ShapeID: "S1", Headsign: "Downtown",
		StopTimes: []timetable.StopTime{
			{StopID: "stopA", Sequence: 0, Arrival: timetable.ParseHMS(8, 0, 0), Departure: timetable.ParseHMS(8, 0, 0)},
			{StopID: "stopB", Sequence: 1, Arrival: timetable.ParseHMS(8, 5, 0), Departure: timetable.ParseHMS(8, 5, 0)},
			{StopID: "stopC", Sequence: 2, Arrival: timetable.ParseHMS(8, 10, 0), Departure: timetable.ParseHMS(8, 10, 0)},
		},
	}
	timetable.PrecomputeActiveHours(trip, svc.Weekdays)
	snap.Trips["T1"] = trip
	snap.TripsByShape["S1"] = []string{"T1"}

	const shapeHash = uint64(1)
	snap.ShapeHashByID["S1"] = shapeHash
	snap.SegmentIndex[shapeHash] = &timetable.EdgeTripSegmentIndex{
		ShapeHash: shapeHash,
		EdgeToSegments: map[shapegraph.EdgeID][]int{
			edgeAB.ID: {0},
			edgeBC.ID: {1},
		},
	}

	return &fixture{snap: snap, a: a, b: b, c: c, edgeAB: edgeAB, edgeBC: edgeBC}
}

// monday returns a Monday (2024-01-01) at the given time of day, matching
// the fixture service's all-weekdays calendar.
func monday(h, m, s int) time.Time {
	return time.Date(2024, 1, 1, h, m, s, 0, time.UTC)
}
