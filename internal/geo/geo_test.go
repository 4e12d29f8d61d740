package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleMeters(t *testing.T) {
	tests := []struct {
		name                           string
		lat1, lon1, lat2, lon2         float64
		expected, tolerance            float64
	}{
		{"same point", 40.7128, -74.0060, 40.7128, -74.0060, 0, 0.001},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111194.925, 1000},
		{"freiburg area hop", 48.009833, 7.782528, 47.009833, 6.782528, 134182.004, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GreatCircleMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestProjectOntoSegment(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 0, Lon: 2}

	t.Run("midpoint", func(t *testing.T) {
		q, frac := ProjectOntoSegment(Coordinate{Lat: 1, Lon: 1}, a, b)
		assert.InDelta(t, 0, q.Lat, 1e-9)
		assert.InDelta(t, 1, q.Lon, 1e-9)
		assert.InDelta(t, 0.5, frac, 1e-9)
	})

	t.Run("clamped before start", func(t *testing.T) {
		q, frac := ProjectOntoSegment(Coordinate{Lat: 0, Lon: -5}, a, b)
		assert.Equal(t, a, q)
		assert.Equal(t, 0.0, frac)
	})

	t.Run("clamped past end", func(t *testing.T) {
		q, frac := ProjectOntoSegment(Coordinate{Lat: 0, Lon: 5}, a, b)
		assert.Equal(t, b, q)
		assert.Equal(t, 1.0, frac)
	})

	t.Run("degenerate segment", func(t *testing.T) {
		q, frac := ProjectOntoSegment(Coordinate{Lat: 5, Lon: 5}, a, a)
		assert.Equal(t, a, q)
		assert.Equal(t, 0.0, frac)
	})
}

func TestSnappingIdempotence(t *testing.T) {
	a := Coordinate{Lat: 47.483688354, Lon: 7.5462784767}
	b := Coordinate{Lat: 47.48368454, Lon: 7.5464272499}
	p := Coordinate{Lat: 47.4837, Lon: 7.5463}

	q1, _ := ProjectOntoSegment(p, a, b)
	q2, _ := ProjectOntoSegment(q1, a, b)
	assert.InDelta(t, q1.Lat, q2.Lat, 1e-12)
	assert.InDelta(t, q1.Lon, q2.Lon, 1e-12)
}

func TestRadiusKmToDegrees(t *testing.T) {
	assert.InDelta(t, 0.08993, RadiusKmToDegrees(10), 1e-9)
}
