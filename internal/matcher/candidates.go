package matcher

import (
	"sort"
	"time"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
	"transitsnap.dev/internal/timetable"
)

// GetCloseEdges implements the Candidate Filter (spec.md §4.4): queries
// the Shape-Edge Graph's spatial index around (lat, lon), keeps only the
// closest occurrence of each shape, attaches active trips per shape, and
// returns the survivors sorted by ascending exact distance. Ported from
// MapMatcher.py's get_close_edges/query_near_edges pair.
func GetCloseEdges(snap *timetable.Snapshot, lat, lon float64, at time.Time, cfg Config, ignoreTime bool) []Candidate {
	center := geo.Coordinate{Lat: lat, Lon: lon}
	edges := snap.Graph.EdgesWithin(center, cfg.MaxDistKM)

	type shapeHit struct {
		edge     *shapegraph.Edge
		distM    float64
		shapeRef shapegraph.ShapeRef
	}
	closestByShape := make(map[string]shapeHit)

	for _, e := range edges {
		dist := geo.DistanceToSegment(center, e.From, e.To)
		for _, ref := range e.Shapes {
			cur, ok := closestByShape[ref.ShapeID]
			if !ok || dist < cur.distM {
				closestByShape[ref.ShapeID] = shapeHit{edge: e, distM: dist, shapeRef: ref}
			}
		}
	}

	// Re-group by edge: multiple shapes can share the keep-closest winner
	// on the same physical edge, and the candidate is one entry per edge
	// with all its surviving shapes attached.
	type edgeGroup struct {
		edge  *shapegraph.Edge
		dist  float64
		shapeIDs []string
	}
	groups := make(map[shapegraph.EdgeID]*edgeGroup)
	for shapeID, hit := range closestByShape {
		g, ok := groups[hit.edge.ID]
		if !ok {
			g = &edgeGroup{edge: hit.edge, dist: hit.distM}
			groups[hit.edge.ID] = g
		}
		g.shapeIDs = append(g.shapeIDs, shapeID)
		if hit.distM < g.dist {
			g.dist = hit.distM
		}
	}

	var candidates []Candidate
	for _, g := range groups {
		var payload EdgePayload
		for _, ref := range g.edge.Shapes {
			if !containsString(g.shapeIDs, ref.ShapeID) {
				continue
			}
			trips := snap.ActiveTripsOnEdge(ref.ShapeID, g.edge.ID, at, cfg.Delay, cfg.Earliness, ignoreTime)
			if len(trips) == 0 {
				continue
			}
			var tos []TripOnShape
			for _, t := range trips {
				tos = append(tos, TripOnShape{ServiceID: t.ServiceID, TripID: t.TripID, RouteID: t.RouteID, SegmentIDs: t.SegmentIDs})
			}
			payload = append(payload, ShapeTrips{Shape: ShapeSeq{ShapeID: ref.ShapeID, SeqNo: ref.SequenceNo}, Trips: tos})
		}
		if len(payload) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			EdgeID: g.edge.ID, LengthM: g.edge.LengthM,
			From: g.edge.From, To: g.edge.To,
			Payload: payload, ExactDistM: g.dist,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ExactDistM < candidates[j].ExactDistM })
	return candidates
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
