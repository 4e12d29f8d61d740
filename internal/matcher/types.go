// Package matcher implements the online HMM map-matching core: the
// Candidate Filter, the HMM Lattice Builder, the Viterbi Path Search, the
// Identity Resolver and the Response Assembler (spec.md §4.4-§4.8).
// Grounded on original_source/backend/Code/MapMatcher.py's
// NetworkOfRoutes class, re-expressed with an explicit lattice graph and
// bounded bidirectional Dijkstra instead of networkx.
package matcher

import (
	"time"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/shapegraph"
)

// GPSFix is one point of the input trace: a location and its timestamp.
type GPSFix struct {
	Lat, Lon float64
	Time     time.Time
}

// ShapeSeq identifies a shape and the edge's 1-based position within it.
type ShapeSeq struct {
	ShapeID string
	SeqNo   int
}

// TripOnShape is one trip's contribution to an edge's payload: its
// identity plus the trip-segment indices active at query time.
type TripOnShape struct {
	ServiceID  string
	TripID     string
	RouteID    string
	SegmentIDs []int
}

// ShapeTrips pairs a shape/seq reference with the trips running it that
// are active on the candidate edge.
type ShapeTrips struct {
	Shape ShapeSeq
	Trips []TripOnShape
}

// EdgePayload is the per-edge annotation carried by a lattice node:
// every shape touching the edge, and for each shape, every active trip.
type EdgePayload []ShapeTrips

// Candidate is one edge near a GPS fix, surviving the per-shape closest-
// occurrence dedup and the active-trip filter (spec.md §4.4).
type Candidate struct {
	EdgeID     shapegraph.EdgeID
	LengthM    float64
	From, To   geo.Coordinate
	Payload    EdgePayload
	ExactDistM float64
}

// Config holds the tunable weights and behavior flags spec.md §6 names as
// configuration keys, mirrored onto a struct the way the teacher's
// appconf.Config/gtfs.Config split binds flags (see SPEC_FULL.md §2).
type Config struct {
	// MaxDistKM bounds the Candidate Filter's spatial search radius.
	MaxDistKM float64
	// Slack is the fraction of input fixes allowed to produce no
	// candidates before the Lattice Builder gives up on a layer.
	Slack float64
	// Delay/Earliness widen a trip segment's active time window, in case
	// a vehicle is running late or early relative to schedule.
	Delay     time.Duration
	Earliness time.Duration
	// PreferLastTrip breaks Identity Resolver ties in favor of
	// LastTripIDHint when present.
	PreferLastTrip bool
	// TimeAfter enables the schedule-time residual tie-break (§4.7.1).
	TimeAfter bool
	// Baseline disables temporal filtering in the Candidate Filter
	// (ignore_time=true), trading match precision for robustness when
	// schedule data is unreliable. Also restricts the input trace to its
	// last GPS fix: Match only ever matches against where the vehicle is
	// right now.
	Baseline bool
	// BaselineHMM also disables temporal filtering in the Candidate
	// Filter, keeping the rest of the lattice (including the Viterbi
	// direction penalty) intact. An alternate baseline mode for comparing
	// against Baseline without giving up the HMM's transition structure.
	BaselineHMM bool
	// Timezone is the timetable's local zone: Match converts every fix's
	// timestamp into it before any schedule lookup. Nil leaves the fixes
	// in the zone they arrived in.
	Timezone *time.Location
	// RejectStationaryNoise is carried on the struct but is not read by
	// Match or BuildLattice; no stationary-noise pre-filter runs, whatever
	// its value. The original's are_last_gps_points_close_to_each_other
	// check was likewise commented out at its call site.
	RejectStationaryNoise bool
}

// DefaultConfig returns the zero-tuning configuration matching the
// original's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxDistKM: 0.05,
		Slack:     0.2,
		Delay:     2 * time.Minute,
		Earliness: 1 * time.Minute,
		Timezone:  time.UTC,
	}
}

// Result is the Response Assembler's output (spec.md §4.8), with JSON keys
// verbatim per spec.md §6.
type Result struct {
	RouteName string         `json:"route_name"`
	TripID    string         `json:"trip_id"`
	RouteType string         `json:"route_type"`
	RouteDest string         `json:"route_dest"`
	RouteColor string        `json:"route_color"`
	ShapeID   string         `json:"shape_id"`
	NextStop  string         `json:"next_stop"`
	Location  geo.Coordinate `json:"location"`
}
