package matcher

import (
	"container/heap"

	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/timetable"
)

// edgeWeight implements the Viterbi weight function w(u, v) (spec.md
// §4.6). SINK edges are weighted separately at construction time in
// BuildLattice since they need the final fix, not u/v's own data.
func edgeWeight(l *Lattice, u, v int, snap *timetable.Snapshot, cfg Config) float64 {
	un, vn := l.Nodes[u], l.Nodes[v]
	if un.IsSource {
		return 1
	}

	if un.Candidate.From == vn.Candidate.From && un.Candidate.To == vn.Candidate.To {
		return un.Candidate.LengthM
	}

	emission := geo.DistanceToSegment(geo.Coordinate{Lat: un.Point.Lat, Lon: un.Point.Lon}, un.Candidate.From, un.Candidate.To)

	var transition float64
	penalty := directionPenalty(un.Candidate, vn.Candidate)
	if penalty == -1 {
		transition = 1e9
	} else {
		transition = un.Candidate.LengthM +
			snap.Graph.ShortestPathCost(un.Candidate.To, vn.Candidate.From, 500, 1e9) +
			vn.Candidate.LengthM
		if penalty == 1 {
			transition += 1e5
		}
	}

	return emission + transition
}

// directionPenalty implements §4.6.1. Returns -1 when u and v share no
// shape (transition must be treated as impassable), 0 when the shared
// shapes' sequence numbers agree on direction of travel, 1 when most
// disagree (the caller adds a 10^5 m penalty).
func directionPenalty(u, v Candidate) int {
	vSeq := make(map[string]int, len(v.Payload))
	for _, st := range v.Payload {
		vSeq[st.Shape.ShapeID] = st.Shape.SeqNo
	}

	shared, correct := 0, 0
	for _, st := range u.Payload {
		seqV, ok := vSeq[st.Shape.ShapeID]
		if !ok {
			continue
		}
		shared++
		if st.Shape.SeqNo <= seqV {
			correct++
		}
	}

	if shared == 0 {
		return -1
	}
	if correct*2 >= shared {
		return 0
	}
	return 1
}

type latticeHeapItem struct {
	dist float64
	node int
}
type latticeHeap []latticeHeapItem

func (h latticeHeap) Len() int            { return len(h) }
func (h latticeHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h latticeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *latticeHeap) Push(x interface{}) { *h = append(*h, x.(latticeHeapItem)) }
func (h *latticeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ShortestPath runs bidirectional Dijkstra over the lattice from SOURCE to
// SINK, returning the node sequence excluding both terminals. Returns nil
// if SOURCE and SINK are disconnected (the empty-lattice edge case, or
// genuinely no viable path). Ported from MapMatcher.py's calculate_path,
// which calls nx.bidirectional_dijkstra with the same weight function.
func (l *Lattice) ShortestPath() []int {
	if len(l.Forward[l.Source]) == 0 {
		return nil
	}

	dists := [2]map[int]float64{{}, {}}
	seen := [2]map[int]float64{{l.Source: 0}, {l.Sink: 0}}
	paths := [2]map[int][]int{{l.Source: {l.Source}}, {l.Sink: {l.Sink}}}
	fringe := [2]*latticeHeap{{}, {}}
	heap.Init(fringe[0])
	heap.Init(fringe[1])
	heap.Push(fringe[0], latticeHeapItem{dist: 0, node: l.Source})
	heap.Push(fringe[1], latticeHeapItem{dist: 0, node: l.Sink})

	adj := [2]map[int][]latticeEdge{l.Forward, l.Backward}

	var finalPath []int
	finalDist := -1.0
	dir := 1

	for fringe[0].Len() > 0 && fringe[1].Len() > 0 {
		dir = 1 - dir
		item := heap.Pop(fringe[dir]).(latticeHeapItem)
		v := item.node
		if _, done := dists[dir][v]; done {
			continue
		}
		dists[dir][v] = item.dist
		if _, doneOther := dists[1-dir][v]; doneOther {
			break
		}

		for _, e := range adj[dir][v] {
			w := e.to
			vwLength := dists[dir][v] + e.weight
			if _, done := dists[dir][w]; done {
				continue
			}
			prev, seenBefore := seen[dir][w]
			if !seenBefore || vwLength < prev {
				seen[dir][w] = vwLength
				heap.Push(fringe[dir], latticeHeapItem{dist: vwLength, node: w})
				next := append(append([]int{}, paths[dir][v]...), w)
				paths[dir][w] = next
				if sOther, ok := seen[1-dir][w]; ok {
					total := vwLength + sOther
					if finalDist < 0 || total < finalDist {
						finalDist = total
						rev := make([]int, len(paths[1][w]))
						for i, n := range paths[1][w] {
							rev[len(paths[1][w])-1-i] = n
						}
						finalPath = append(append([]int{}, paths[0][w]...), rev[1:]...)
					}
				}
			}
		}
	}

	if finalPath == nil {
		return nil
	}
	// strip SOURCE/SINK terminals
	return finalPath[1 : len(finalPath)-1]
}
