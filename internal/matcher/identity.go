package matcher

import (
	"time"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/timetable"
)

// TripKey is the (service, trip, route, shape) tuple the Identity
// Resolver votes over (spec.md §4.7).
type TripKey struct {
	ServiceID string
	TripID    string
	RouteID   string
	ShapeID   string
}

// ResolveIdentity implements the Identity Resolver (spec.md §4.7): a shape
// vote, then a trip vote restricted to the tied shapes, then a tie-break
// cascade, then segment recovery by walking the path in reverse. Ported
// from MapMatcher.py's get_most_likely_shape.
func ResolveIdentity(snap *timetable.Snapshot, l *Lattice, path []int, cfg Config, lastTripIDHint string) (key TripKey, segmentIDs []int, ok bool) {
	if len(path) == 0 {
		return TripKey{}, nil, false
	}

	shapeCount := map[string]int{}
	for _, idx := range path {
		seen := map[string]bool{}
		for _, st := range l.Nodes[idx].Candidate.Payload {
			if !seen[st.Shape.ShapeID] {
				seen[st.Shape.ShapeID] = true
				shapeCount[st.Shape.ShapeID]++
			}
		}
	}
	if len(shapeCount) == 0 {
		return TripKey{}, nil, false
	}
	maxShape := 0
	for _, c := range shapeCount {
		if c > maxShape {
			maxShape = c
		}
	}
	tiedShapes := map[string]bool{}
	for s, c := range shapeCount {
		if c == maxShape {
			tiedShapes[s] = true
		}
	}

	tupleCount := map[TripKey]int{}
	var order []TripKey
	seenKey := map[TripKey]bool{}
	for _, idx := range path {
		seenHere := map[TripKey]bool{}
		for _, st := range l.Nodes[idx].Candidate.Payload {
			if !tiedShapes[st.Shape.ShapeID] {
				continue
			}
			for _, tr := range st.Trips {
				k := TripKey{tr.ServiceID, tr.TripID, tr.RouteID, st.Shape.ShapeID}
				if !seenHere[k] {
					seenHere[k] = true
					tupleCount[k]++
				}
				if !seenKey[k] {
					seenKey[k] = true
					order = append(order, k)
				}
			}
		}
	}
	if len(tupleCount) == 0 {
		return TripKey{}, nil, false
	}
	maxTuple := 0
	for _, c := range tupleCount {
		if c > maxTuple {
			maxTuple = c
		}
	}
	var tied []TripKey
	for _, k := range order {
		if tupleCount[k] == maxTuple {
			tied = append(tied, k)
		}
	}

	winner := tied[0]
	resolved := len(tied) == 1
	if !resolved && cfg.PreferLastTrip && lastTripIDHint != "" {
		for _, k := range tied {
			if k.TripID == lastTripIDHint {
				winner = k
				resolved = true
				break
			}
		}
	}
	if !resolved && cfg.TimeAfter {
		bestResidual := time.Duration(-1)
		for _, k := range tied {
			r := averageResidual(snap, l, path, k)
			if bestResidual < 0 || r < bestResidual {
				bestResidual = r
				winner = k
			}
		}
	}

	for i := len(path) - 1; i >= 0; i-- {
		node := l.Nodes[path[i]]
		for _, st := range node.Candidate.Payload {
			if st.Shape.ShapeID != winner.ShapeID {
				continue
			}
			for _, tr := range st.Trips {
				if tr.ServiceID == winner.ServiceID && tr.TripID == winner.TripID && tr.RouteID == winner.RouteID {
					return winner, tr.SegmentIDs, true
				}
			}
		}
	}
	return winner, nil, false
}

// averageResidual computes the mean absolute schedule-time residual
// (spec.md §4.7.1) across every path node carrying key, used to break
// Identity Resolver ties when TimeAfter is enabled.
func averageResidual(snap *timetable.Snapshot, l *Lattice, path []int, key TripKey) time.Duration {
	trip, ok := snap.Trips[key.TripID]
	if !ok {
		return time.Hour * 24 * 365 // effectively disqualifies an unresolvable trip
	}

	var total time.Duration
	var n int
	for _, idx := range path {
		node := l.Nodes[idx]
		var segs []int
		for _, st := range node.Candidate.Payload {
			if st.Shape.ShapeID != key.ShapeID {
				continue
			}
			for _, tr := range st.Trips {
				if tr.TripID == key.TripID {
					segs = tr.SegmentIDs
				}
			}
		}
		if len(segs) == 0 {
			continue
		}
		r := nodeResidual(trip, node, segs)
		total += r
		n++
	}
	if n == 0 {
		return time.Hour * 24 * 365
	}
	return total / time.Duration(n)
}

// nodeResidual finds the minimum absolute time residual across a node's
// candidate segments, projecting the GPS fix onto the node's matched edge
// as a proxy for position along the trip segment (an approximation: the
// original tracks fractional position along the full stop-to-stop
// polyline, which may span several shape-graph edges; here the edge
// itself stands in for that polyline span, which is exact when a segment
// maps to a single edge and a close approximation otherwise).
func nodeResidual(trip *timetable.Trip, node StateNode, segs []int) time.Duration {
	best := time.Duration(-1)
	_, frac := geo.ProjectOntoSegment(geo.Coordinate{Lat: node.Point.Lat, Lon: node.Point.Lon}, node.Candidate.From, node.Candidate.To)

	for _, seg := range segs {
		if seg < 0 || seg+1 >= len(trip.StopTimes) {
			continue
		}
		start := trip.StopTimes[seg]
		end := trip.StopTimes[seg+1]
		optimal := interpolateHMS(start.Departure, end.Arrival, frac, node.Point.Time)
		residual := node.Point.Time.Sub(optimal)
		if residual < 0 {
			residual = -residual
		}
		if best < 0 || residual < best {
			best = residual
		}
	}
	if best < 0 {
		return time.Hour * 24 * 365
	}
	return best
}

// interpolateHMS maps a fractional position between two schedule times
// onto an absolute time anchored on the same calendar day as ref,
// respecting each time's overtime bit.
func interpolateHMS(start, end timetable.HMS, frac float64, ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	startAbs := day.Add(time.Duration(start.Seconds) * time.Second)
	if start.Overtime {
		startAbs = startAbs.AddDate(0, 0, 1)
	}
	endAbs := day.Add(time.Duration(end.Seconds) * time.Second)
	if end.Overtime {
		endAbs = endAbs.AddDate(0, 0, 1)
	}
	span := endAbs.Sub(startAbs)
	return startAbs.Add(time.Duration(float64(span) * frac))
}
