package matcher

import (
	"time"

	"transitsnap.dev/internal/timetable"
)

// EmptyResult is the literal empty-match response spec.md §6 mandates
// when no path is found: every string field empty, location [0, 0].
var EmptyResult = Result{}

// Match runs the full map-matching pipeline (spec.md §4.5-§4.8) over a GPS
// trace: build the lattice, search it, resolve trip identity, and
// assemble the response. Returns EmptyResult (all fields empty/zero) if no
// path is found or no trip could be identified, per spec.md §7's
// empty-match-over-error policy.
func Match(snap *timetable.Snapshot, fixes []GPSFix, cfg Config, lastTripIDHint string) Result {
	if len(fixes) == 0 {
		return EmptyResult
	}

	fixes = localize(fixes, cfg.Timezone)
	if cfg.Baseline {
		// Baseline mode matches against where the vehicle is right now:
		// only the most recent fix drives the lattice, same as
		// MapMatcher.py's calculate_path([route[-1]], dist) call.
		fixes = fixes[len(fixes)-1:]
	}

	lattice := BuildLattice(snap, fixes, cfg)
	path := lattice.ShortestPath()
	if len(path) == 0 {
		return EmptyResult
	}

	key, segmentIDs, ok := ResolveIdentity(snap, lattice, path, cfg, lastTripIDHint)
	if !ok {
		return EmptyResult
	}

	trip, ok := snap.Trips[key.TripID]
	if !ok {
		return EmptyResult
	}

	lastNode := lattice.Nodes[path[len(path)-1]]
	lastFix := fixes[len(fixes)-1]
	return AssembleResponse(snap, trip, key, segmentIDs, lastNode.Candidate.From, lastNode.Candidate.To, lastFix)
}

// localize converts every fix's timestamp into tz, so the Candidate Filter
// and Schedule Oracle bucket GPS fixes by the transit system's own local
// weekday/hour rather than whatever zone the caller's epoch happened to
// decode into. A nil tz leaves the fixes untouched.
func localize(fixes []GPSFix, tz *time.Location) []GPSFix {
	if tz == nil {
		return fixes
	}
	out := make([]GPSFix, len(fixes))
	for i, f := range fixes {
		out[i] = GPSFix{Lat: f.Lat, Lon: f.Lon, Time: f.Time.In(tz)}
	}
	return out
}
