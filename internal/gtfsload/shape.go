package gtfsload

import (
	"hash/fnv"
	"sort"
	"strconv"

	gogtfs "github.com/OneBusAway/go-gtfs"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

func convertService(svc *gogtfs.Service) *timetable.Service {
	weekdays := [7]bool{svc.Monday, svc.Tuesday, svc.Wednesday, svc.Thursday, svc.Friday, svc.Saturday, svc.Sunday}

	extra := map[string]bool{}
	for _, d := range svc.AddedDates {
		extra[d.Format("20060102")] = true
	}
	removed := map[string]bool{}
	for _, d := range svc.RemovedDates {
		removed[d.Format("20060102")] = true
	}

	return &timetable.Service{
		ID:           svc.Id,
		Weekdays:     weekdays,
		StartDate:    svc.StartDate,
		EndDate:      svc.EndDate,
		ExtraDates:   extra,
		RemovedDates: removed,
	}
}

// buildShapeEdges registers one shape's consecutive points as directed
// edges in the Shape-Edge Graph and builds its edge->trip-segment mapping.
// The original's GTFSContainer splits a shape into per-stop segments using
// each stop's matched distance along the shape; lacking a pre-matched
// shape_dist_traveled per stop here, segments are apportioned evenly
// across the shape's edges by position, an approximation noted in
// DESIGN.md.
func buildShapeEdges(snap *timetable.Snapshot, shapeID string, points []gogtfs.ShapePoint) map[shapegraph.EdgeID][]int {
	edgeSegs := map[shapegraph.EdgeID][]int{}
	if len(points) < 2 {
		return edgeSegs
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Sequence < points[j].Sequence })

	trip := firstTripOnShape(snap, shapeID)
	segmentCount := 0
	if trip != nil {
		segmentCount = len(trip.StopTimes) - 1
	}

	edgeCount := len(points) - 1
	for i := 0; i < edgeCount; i++ {
		from := geo.Coordinate{Lat: points[i].Latitude, Lon: points[i].Longitude}
		to := geo.Coordinate{Lat: points[i+1].Latitude, Lon: points[i+1].Longitude}
		edge := snap.Graph.AddEdge(from, to, shapegraph.ShapeRef{ShapeID: shapeID, SequenceNo: uint32(i + 1)})

		seg := i
		if segmentCount > 0 {
			seg = i * segmentCount / edgeCount
			if seg >= segmentCount {
				seg = segmentCount - 1
			}
		}
		edgeSegs[edge.ID] = appendUnique(edgeSegs[edge.ID], seg)
	}
	return edgeSegs
}

func appendUnique(segs []int, seg int) []int {
	for _, s := range segs {
		if s == seg {
			return segs
		}
	}
	return append(segs, seg)
}

func firstTripOnShape(snap *timetable.Snapshot, shapeID string) *timetable.Trip {
	for _, tripID := range snap.TripsByShape[shapeID] {
		if t, ok := snap.Trips[tripID]; ok {
			return t
		}
	}
	return nil
}

// hashShapePoints content-hashes a shape's point sequence so two shape_ids
// with identical geometry share one EdgeTripSegmentIndex entry (spec.md
// §3). Time is never used (FNV-1a over the coordinate stream only), so the
// hash is a pure function of geometry.
func hashShapePoints(points []gogtfs.ShapePoint) uint64 {
	h := fnv.New64a()
	for _, p := range points {
		h.Write([]byte(strconv.FormatFloat(p.Latitude, 'f', 7, 64)))
		h.Write([]byte(strconv.FormatFloat(p.Longitude, 'f', 7, 64)))
	}
	return h.Sum64()
}
