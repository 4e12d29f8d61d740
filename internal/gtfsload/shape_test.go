package gtfsload

import (
	"testing"

	gogtfs "github.com/OneBusAway/go-gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitsnap.dev/internal/timetable"
)

func TestHashShapePointsIsDeterministicAndGeometrySensitive(t *testing.T) {
	a := []gogtfs.ShapePoint{{ShapeID: "S1", Latitude: 0, Longitude: 0, Sequence: 1}, {ShapeID: "S1", Latitude: 0, Longitude: 1, Sequence: 2}}
	b := []gogtfs.ShapePoint{{ShapeID: "S2", Latitude: 0, Longitude: 0, Sequence: 1}, {ShapeID: "S2", Latitude: 0, Longitude: 1, Sequence: 2}}
	c := []gogtfs.ShapePoint{{ShapeID: "S3", Latitude: 0, Longitude: 0, Sequence: 1}, {ShapeID: "S3", Latitude: 0, Longitude: 2, Sequence: 2}}

	// Same geometry, different shape_id -> same hash (sharing is the point).
	assert.Equal(t, hashShapePoints(a), hashShapePoints(b))
	// Different geometry -> different hash.
	assert.NotEqual(t, hashShapePoints(a), hashShapePoints(c))
}

func TestBuildShapeEdgesApportionsSegmentsAcrossEdges(t *testing.T) {
	snap := timetable.NewSnapshot()
	snap.Trips["T1"] = &timetable.Trip{
		ID: "T1", ShapeID: "S1",
		StopTimes: []timetable.StopTime{{Sequence: 0}, {Sequence: 1}, {Sequence: 2}},
	}
	snap.TripsByShape["S1"] = []string{"T1"}

	points := []gogtfs.ShapePoint{
		{ShapeID: "S1", Latitude: 0, Longitude: 0, Sequence: 1},
		{ShapeID: "S1", Latitude: 0, Longitude: 1, Sequence: 2},
		{ShapeID: "S1", Latitude: 0, Longitude: 2, Sequence: 3},
		{ShapeID: "S1", Latitude: 0, Longitude: 3, Sequence: 4},
	}

	edgeSegs := buildShapeEdges(snap, "S1", points)
	require.Len(t, edgeSegs, 3)

	seen := map[int]bool{}
	for _, segs := range edgeSegs {
		require.Len(t, segs, 1)
		seen[segs[0]] = true
	}
	// Every one of the trip's 2 segments should have been assigned to at
	// least one edge (3 edges apportioned across a 2-segment trip).
	assert.True(t, seen[0] && seen[1])
}

func TestAppendUniqueDedupes(t *testing.T) {
	s := appendUnique(nil, 3)
	s = appendUnique(s, 3)
	s = appendUnique(s, 4)
	assert.Equal(t, []int{3, 4}, s)
}
