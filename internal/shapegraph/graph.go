// Package shapegraph implements the Shape-Edge Graph: a directed multigraph
// over shape geometry where many GTFS shapes can share the same physical
// edge, plus an R-tree spatial index for proximity queries. Grounded on
// OneBusAway-maglev's internal/gtfs/spatial_index.go, generalized from a
// point index over stops to a segment index over shape edges.
package shapegraph

import (
	"github.com/tidwall/rtree"

	"transitsnap.dev/internal/geo"
)

// ShapeRef ties an edge to the shape that traverses it and the 1-based
// position in that shape's edge sequence.
type ShapeRef struct {
	ShapeID     string
	SequenceNo  uint32
}

// EdgeID is a dense, zero-based edge identifier assigned at insertion time.
type EdgeID uint32

// Edge is a directed shape-edge with its aggregate attributes.
type Edge struct {
	ID      EdgeID
	From    geo.Coordinate
	To      geo.Coordinate
	LengthM float64
	Shapes  []ShapeRef
}

type endpoints struct {
	from, to geo.Coordinate
}

// Graph is the directed Shape-Edge Graph. Zero value is not usable; use
// NewGraph. A Graph is built once during Snapshot construction and is
// read-only thereafter — safe for concurrent readers.
type Graph struct {
	edges        map[endpoints]*Edge
	successors   map[geo.Coordinate][]*Edge
	predecessors map[geo.Coordinate][]*Edge
	tree         *rtree.RTree
	nextID       EdgeID
}

// NewGraph returns an empty Shape-Edge Graph.
func NewGraph() *Graph {
	return &Graph{
		edges:        make(map[endpoints]*Edge),
		successors:   make(map[geo.Coordinate][]*Edge),
		predecessors: make(map[geo.Coordinate][]*Edge),
		tree:         &rtree.RTree{},
	}
}

// AddEdge registers shape as traversing the directed edge from->to,
// creating the edge (and assigning it a dense edge id) on first use. The
// invariant that a shape's sequence numbers are contiguous 1..N is the
// caller's (the Timetable Loader's) responsibility.
func (g *Graph) AddEdge(from, to geo.Coordinate, shape ShapeRef) *Edge {
	key := endpoints{from, to}
	if e, ok := g.edges[key]; ok {
		e.Shapes = append(e.Shapes, shape)
		return e
	}

	e := &Edge{
		ID:      g.nextID,
		From:    from,
		To:      to,
		LengthM: geo.Distance(from, to),
		Shapes:  []ShapeRef{shape},
	}
	g.nextID++
	g.edges[key] = e
	g.successors[from] = append(g.successors[from], e)
	g.predecessors[to] = append(g.predecessors[to], e)

	minLat, maxLat := from.Lat, to.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLon, maxLon := from.Lon, to.Lon
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	g.tree.Insert([2]float64{minLat, minLon}, [2]float64{maxLat, maxLon}, e)

	return e
}

// EdgeData returns the edge from->to, if present.
func (g *Graph) EdgeData(from, to geo.Coordinate) (*Edge, bool) {
	e, ok := g.edges[endpoints{from, to}]
	return e, ok
}

// Successors returns the edges leaving the node at c.
func (g *Graph) Successors(c geo.Coordinate) []*Edge {
	return g.successors[c]
}

// Predecessors returns the edges arriving at the node at c.
func (g *Graph) Predecessors(c geo.Coordinate) []*Edge {
	return g.predecessors[c]
}

// EdgesWithin returns every edge whose geometry intersects the disk of
// radius radiusKm around center. The R-tree is queried against the disk's
// bounding box (a cheap over-approximation); callers get only edges that
// also pass the exact segment-to-point distance check, per spec: the index
// is a filter, exact checks follow.
func (g *Graph) EdgesWithin(center geo.Coordinate, radiusKm float64) []*Edge {
	degRadius := geo.RadiusKmToDegrees(radiusKm)
	minPt := [2]float64{center.Lat - degRadius, center.Lon - degRadius}
	maxPt := [2]float64{center.Lat + degRadius, center.Lon + degRadius}

	radiusM := radiusKm * 1000
	var out []*Edge
	g.tree.Search(minPt, maxPt, func(_, _ [2]float64, data interface{}) bool {
		e, ok := data.(*Edge)
		if !ok {
			return true
		}
		if geo.DistanceToSegment(center, e.From, e.To) <= radiusM {
			out = append(out, e)
		}
		return true
	})
	return out
}
