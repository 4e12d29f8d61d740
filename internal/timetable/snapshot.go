package timetable

import (
	"sync/atomic"

	"transitsnap.dev/internal/shapegraph"
)

// Snapshot is the read-only Timetable Snapshot (spec.md §3, §5): every
// GTFS static entity needed by the matcher, plus the Shape-Edge Graph and
// the latest realtime correction table. Once built, a Snapshot is never
// mutated — the Registry swaps in a new one wholesale, so any Snapshot a
// request holds stays internally consistent for the request's whole
// lifetime, even if a reload completes mid-request.
type Snapshot struct {
	Graph *shapegraph.Graph

	Stops   map[string]*Stop
	Routes  map[string]*Route
	Trips   map[string]*Trip
	Services map[string]*Service

	// TripsByShape groups trip IDs sharing a shape_id; ActiveTripsOnEdge
	// iterates it to find the trips running on a candidate edge's shape.
	TripsByShape map[string][]string

	// SegmentIndex is keyed by shape hash, shared across every trip whose
	// shape produces the same hash — the core memory optimization per
	// spec.md §3's EdgeTripSegmentIndex.
	SegmentIndex map[uint64]*EdgeTripSegmentIndex

	// ShapeHashByID maps a GTFS shape_id to the content hash of its edge
	// sequence, so two shape_ids whose geometry is identical share one
	// SegmentIndex entry instead of duplicating the edge->segment table.
	ShapeHashByID map[string]uint64

	Realtime *RealtimeTable
}

// NewSnapshot returns an empty Snapshot with initialized maps, ready for
// the Timetable Loader to populate before publishing it to a Registry.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Graph:        shapegraph.NewGraph(),
		Stops:        make(map[string]*Stop),
		Routes:       make(map[string]*Route),
		Trips:        make(map[string]*Trip),
		Services:     make(map[string]*Service),
		TripsByShape:  make(map[string][]string),
		SegmentIndex:  make(map[uint64]*EdgeTripSegmentIndex),
		ShapeHashByID: make(map[string]uint64),
		Realtime:      &RealtimeTable{ByTrip: make(map[string][]RealtimeStopUpdate)},
	}
}

// Registry holds the currently-published Snapshot behind an atomic
// pointer, giving readers a lock-free, always-consistent view and giving
// the loader/refresher a single atomic swap to publish a new one — the RCU
// discipline spec.md §5 requires. A zero Registry has no Snapshot; callers
// must check Ready before Current returns a non-nil snapshot.
type Registry struct {
	ptr atomic.Pointer[Snapshot]
}

// NewRegistry returns an empty Registry with no published Snapshot.
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the currently-published Snapshot, or nil if none has
// been published yet (the not-yet-ready case the Request Facade maps to a
// 503). Once a Snapshot is published, Current never returns nil again: a
// rebuild in progress leaves the previous Snapshot in place until Publish.
func (r *Registry) Current() *Snapshot {
	return r.ptr.Load()
}

// Ready reports whether a Snapshot has been published.
func (r *Registry) Ready() bool {
	return r.ptr.Load() != nil
}

// Publish atomically swaps in a fully-built Snapshot. The previous
// Snapshot, if any, is left untouched and garbage-collected once every
// request holding a reference to it completes — no explicit refcounting
// needed since Go snapshots are immutable and GC-managed.
func (r *Registry) Publish(s *Snapshot) {
	r.ptr.Store(s)
}

// PublishRealtime swaps in a freshly decoded RealtimeTable without
// rebuilding the static side of the Snapshot: it shallow-copies the
// currently published Snapshot, replaces its Realtime field and publishes
// the copy, so a realtime refresh (seconds) never pays the cost of a full
// static reload (minutes). A no-op if no Snapshot has been published yet.
func (r *Registry) PublishRealtime(rt *RealtimeTable) {
	cur := r.ptr.Load()
	if cur == nil {
		return
	}
	next := *cur
	next.Realtime = rt
	r.ptr.Store(&next)
}
