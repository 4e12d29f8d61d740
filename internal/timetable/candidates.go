package timetable

import (
	"time"

	"transitsnap.dev/internal/shapegraph"
)

// TripSegments is one trip's contribution to a Candidate Filter result for
// a given edge: the trip identity plus the subset of its trip-segment
// indices that both traverse the edge and are active at the query time.
type TripSegments struct {
	ServiceID  string
	TripID     string
	RouteID    string
	SegmentIDs []int
}

// ActiveTripsOnEdge returns, for every trip running the given shape, the
// trip-segment indices that traverse edgeID and are active at `at` (widened
// by delay/earliness and by any realtime corrections the Snapshot carries
// for the trip). If ignoreTime is set, temporal filtering is disabled
// entirely (baseline mode per spec.md §4.4 step 4): every trip whose shape
// touches the edge is returned with a synthetic single-segment marker,
// regardless of the clock.
func (s *Snapshot) ActiveTripsOnEdge(shapeID string, edgeID shapegraph.EdgeID, at time.Time, delay, earliness time.Duration, ignoreTime bool) []TripSegments {
	hash, ok := s.ShapeHashByID[shapeID]
	if !ok {
		return nil
	}
	segIndex, ok := s.SegmentIndex[hash]
	if !ok {
		return nil
	}
	edgeSegments, ok := segIndex.EdgeToSegments[edgeID]
	if !ok || len(edgeSegments) == 0 {
		return nil
	}

	var results []TripSegments
	for _, tripID := range s.TripsByShape[shapeID] {
		trip, ok := s.Trips[tripID]
		if !ok {
			continue
		}
		svc, ok := s.Services[trip.ServiceID]
		if !ok {
			continue
		}

		if ignoreTime {
			results = append(results, TripSegments{
				ServiceID: trip.ServiceID, TripID: tripID, RouteID: trip.RouteID,
				SegmentIDs: []int{0},
			})
			continue
		}

		active := ActiveSegments(trip, svc, at, delay, earliness, s.Realtime.ByTrip[tripID])
		if len(active) == 0 {
			continue
		}
		activeSet := make(map[int]bool, len(active))
		for _, a := range active {
			activeSet[a] = true
		}

		var matched []int
		for _, seg := range edgeSegments {
			if activeSet[seg] {
				matched = append(matched, seg)
			}
		}
		if len(matched) > 0 {
			results = append(results, TripSegments{
				ServiceID: trip.ServiceID, TripID: tripID, RouteID: trip.RouteID,
				SegmentIDs: matched,
			})
		}
	}
	return results
}
