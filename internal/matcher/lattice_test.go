package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"transitsnap.dev/internal/geo"
)

func midpoint(a, b geo.Coordinate) geo.Coordinate {
	return geo.Coordinate{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
}

func TestBuildLatticeEmptyFixesReturnsSourceSinkOnly(t *testing.T) {
	f := newFixture()
	l := BuildLattice(f.snap, nil, DefaultConfig())
	assert.Equal(t, 2, len(l.Nodes))
	assert.Nil(t, l.ShortestPath())
}

func TestBuildLatticeConnectsTwoFixesAcrossEdges(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()

	midAB := midpoint(f.a, f.b)
	midBC := midpoint(f.b, f.c)

	fixes := []GPSFix{
		{Lat: midAB.Lat, Lon: midAB.Lon, Time: monday(8, 2, 0)},
		{Lat: midBC.Lat, Lon: midBC.Lon, Time: monday(8, 7, 0)},
	}

	l := BuildLattice(f.snap, fixes, cfg)
	path := l.ShortestPath()
	require.Len(t, path, 2)
	assert.Equal(t, f.edgeAB.ID, l.Nodes[path[0]].Candidate.EdgeID)
	assert.Equal(t, f.edgeBC.ID, l.Nodes[path[1]].Candidate.EdgeID)
}

// TestBuildLatticeBaselineHMMIgnoresScheduleTime covers spec.md §6:
// baseline_hmm keeps the lattice (and its direction penalty) but disables
// temporal filtering in the Candidate Filter, same as plain baseline mode.
// A trip whose schedule window doesn't cover the fix's timestamp would
// normally produce no candidates; under baseline_hmm it still does.
func TestBuildLatticeBaselineHMMIgnoresScheduleTime(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()
	cfg.BaselineHMM = true

	midAB := midpoint(f.a, f.b)
	fixes := []GPSFix{
		{Lat: midAB.Lat, Lon: midAB.Lon, Time: monday(3, 0, 0)}, // well outside the trip's 08:00-08:10 schedule
	}

	l := BuildLattice(f.snap, fixes, cfg)
	require.Len(t, l.Nodes, 3) // SOURCE, one candidate, SINK
	assert.Equal(t, f.edgeAB.ID, l.Nodes[1].Candidate.EdgeID)
}

func TestBuildLatticeAllFixesEmptyLeavesLatticeDisconnected(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()
	cfg.Slack = 0

	fixes := []GPSFix{
		{Lat: 45, Lon: 45, Time: monday(8, 2, 0)},
	}
	l := BuildLattice(f.snap, fixes, cfg)
	assert.Nil(t, l.ShortestPath())
}
