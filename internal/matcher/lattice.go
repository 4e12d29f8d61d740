package matcher

import (
	"transitsnap.dev/internal/geo"
	"transitsnap.dev/internal/timetable"
)

// StateNode is one lattice node: a GPS fix paired with one of its
// surviving candidate edges. SOURCE and SINK are represented as nodes with
// IsSource/IsSink set and no Candidate.
type StateNode struct {
	Point     GPSFix
	Candidate Candidate
	IsSource  bool
	IsSink    bool
}

type latticeEdge struct {
	to     int
	weight float64
}

// Lattice is the HMM Lattice Builder's output (spec.md §4.5): a layered
// DAG of StateNodes with SOURCE and SINK sentinels, indexed by integer node
// id for the Viterbi search.
type Lattice struct {
	Nodes   []StateNode
	Forward map[int][]latticeEdge
	Backward map[int][]latticeEdge
	Source  int
	Sink    int
}

func newLattice() *Lattice {
	l := &Lattice{Forward: make(map[int][]latticeEdge), Backward: make(map[int][]latticeEdge)}
	l.Nodes = append(l.Nodes, StateNode{IsSource: true})
	l.Source = 0
	return l
}

func (l *Lattice) addNode(n StateNode) int {
	l.Nodes = append(l.Nodes, n)
	return len(l.Nodes) - 1
}

func (l *Lattice) addEdge(u, v int, weight float64) {
	l.Forward[u] = append(l.Forward[u], latticeEdge{to: v, weight: weight})
	l.Backward[v] = append(l.Backward[v], latticeEdge{to: u, weight: weight})
}

// BuildLattice implements the HMM Lattice Builder (spec.md §4.5): for each
// GPS fix, runs the Candidate Filter and fans the previous layer's nodes
// out to the new layer, tolerating up to floor(n*slack) fixes with no
// candidates before giving up on them (the layer is simply skipped, and
// the next fix connects back to the last non-empty layer). Ported from
// MapMatcher.py's calculate_path lattice construction.
func BuildLattice(snap *timetable.Snapshot, fixes []GPSFix, cfg Config) *Lattice {
	l := newLattice()
	if len(fixes) == 0 {
		l.Sink = l.addNode(StateNode{IsSink: true})
		return l
	}

	slackBudget := int(float64(len(fixes)) * cfg.Slack)
	lastLayer := []int{l.Source}
	var lastNonEmptyFix *GPSFix

	for i := range fixes {
		fix := fixes[i]
		candidates := GetCloseEdges(snap, fix.Lat, fix.Lon, fix.Time, cfg, cfg.Baseline || cfg.BaselineHMM)
		if len(candidates) == 0 && slackBudget > 0 {
			slackBudget--
			continue
		}
		if len(candidates) == 0 {
			// Slack exhausted: this layer is empty and the chain dead-ends
			// here, same as the lattice ending early — later fixes have
			// nothing in lastLayer to connect from.
			lastLayer = nil
			lastNonEmptyFix = nil
			continue
		}

		var newLayer []int
		for _, c := range candidates {
			idx := l.addNode(StateNode{Point: fix, Candidate: c})
			newLayer = append(newLayer, idx)
		}

		for _, u := range lastLayer {
			for _, v := range newLayer {
				l.addEdge(u, v, edgeWeight(l, u, v, snap, cfg))
			}
		}

		lastLayer = newLayer
		lastNonEmptyFix = &fix
	}

	l.Sink = l.addNode(StateNode{IsSink: true})
	// If every fix failed to produce a candidate, lastLayer is still just
	// [Source]: leave SOURCE and SINK disconnected so the Viterbi search
	// reports no path, per spec.md §4.5's empty-lattice edge case.
	if lastNonEmptyFix != nil {
		for _, u := range lastLayer {
			if u == l.Source {
				continue
			}
			n := l.Nodes[u]
			dist := geo.DistanceToSegment(geo.Coordinate{Lat: lastNonEmptyFix.Lat, Lon: lastNonEmptyFix.Lon}, n.Candidate.From, n.Candidate.To)
			l.addEdge(u, l.Sink, dist*1e6)
		}
	}

	return l
}
