package shapegraph

import "transitsnap.dev/internal/geo"

// WalkShape reconstructs a shape's edge sequence by walking the graph from
// its seed edge (the edge tagged with the smallest sequence number for
// shapeID) and, at each node, following the outgoing edge tagged with the
// smallest unvisited sequence number for that shape — per spec.md §6's
// `/shapes` walk. The walk stops when no unvisited successor tagged with
// this shape exists, or after stepCap steps (a cycle guard; the source's own hard cap
// is 100000).
func (g *Graph) WalkShape(shapeID string, stepCap int) []*Edge {
	seed := g.seedEdge(shapeID)
	if seed == nil {
		return nil
	}

	visited := map[EdgeID]bool{seed.ID: true}
	walk := []*Edge{seed}
	cur := seed

	for steps := 0; steps < stepCap; steps++ {
		next := g.nextEdgeInShape(shapeID, cur.To, visited)
		if next == nil {
			break
		}
		visited[next.ID] = true
		walk = append(walk, next)
		cur = next
	}

	return walk
}

// seedEdge returns the edge carrying shapeID's smallest sequence number.
func (g *Graph) seedEdge(shapeID string) *Edge {
	var best *Edge
	var bestSeq uint32
	for _, e := range g.edges {
		for _, ref := range e.Shapes {
			if ref.ShapeID != shapeID {
				continue
			}
			if best == nil || ref.SequenceNo < bestSeq {
				best, bestSeq = e, ref.SequenceNo
			}
		}
	}
	return best
}

// nextEdgeInShape picks the unvisited successor of node tagged with shapeID
// that carries the smallest sequence number for that shape, breaking ties
// by insertion order (the source's "sorted-first" rule, spec.md §9).
func (g *Graph) nextEdgeInShape(shapeID string, node geo.Coordinate, visited map[EdgeID]bool) *Edge {
	var best *Edge
	var bestSeq uint32
	for _, e := range g.successors[node] {
		if visited[e.ID] {
			continue
		}
		for _, ref := range e.Shapes {
			if ref.ShapeID != shapeID {
				continue
			}
			if best == nil || ref.SequenceNo < bestSeq {
				best, bestSeq = e, ref.SequenceNo
			}
		}
	}
	return best
}
