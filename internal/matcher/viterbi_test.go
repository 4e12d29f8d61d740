package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidateWithShape(shapeID string, seq int) Candidate {
	return Candidate{Payload: EdgePayload{{Shape: ShapeSeq{ShapeID: shapeID, SeqNo: seq}}}}
}

func TestDirectionPenaltyNoSharedShape(t *testing.T) {
	u := candidateWithShape("s1", 1)
	v := candidateWithShape("s2", 1)
	assert.Equal(t, -1, directionPenalty(u, v))
}

func TestDirectionPenaltyCorrectDirection(t *testing.T) {
	u := candidateWithShape("s1", 1)
	v := candidateWithShape("s1", 2)
	assert.Equal(t, 0, directionPenalty(u, v))
}

func TestDirectionPenaltyReversedDirection(t *testing.T) {
	u := candidateWithShape("s1", 5)
	v := candidateWithShape("s1", 1)
	assert.Equal(t, 1, directionPenalty(u, v))
}

func TestDirectionPenaltyMajorityRule(t *testing.T) {
	u := Candidate{Payload: EdgePayload{
		{Shape: ShapeSeq{ShapeID: "s1", SeqNo: 1}},
		{Shape: ShapeSeq{ShapeID: "s2", SeqNo: 1}},
	}}
	v := Candidate{Payload: EdgePayload{
		{Shape: ShapeSeq{ShapeID: "s1", SeqNo: 2}}, // correct
		{Shape: ShapeSeq{ShapeID: "s2", SeqNo: 0}}, // reversed
	}}
	// 1 of 2 shared shapes correct: correct*2 >= shared (1*2>=2) -> 0
	assert.Equal(t, 0, directionPenalty(u, v))
}

func TestShortestPathNoEdgesReturnsNil(t *testing.T) {
	l := newLattice()
	l.Sink = l.addNode(StateNode{IsSink: true})
	assert.Nil(t, l.ShortestPath())
}

func TestShortestPathSimpleChain(t *testing.T) {
	l := newLattice()
	n1 := l.addNode(StateNode{})
	n2 := l.addNode(StateNode{})
	l.Sink = l.addNode(StateNode{IsSink: true})

	l.addEdge(l.Source, n1, 1)
	l.addEdge(n1, n2, 2)
	l.addEdge(n2, l.Sink, 3)

	path := l.ShortestPath()
	assert.Equal(t, []int{n1, n2}, path)
}
