package probability

import (
	"testing"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
	"github.com/stretchr/testify/require"
)

// buildABCNetwork builds two independent root causes A, B and an effect C
// with a hand-picked CPT, small enough to hand-verify every expected value.
func buildABCNetwork(t *testing.T) (*network.Network, int, int, int) {
	t.Helper()
	net := network.New()

	a := node.New(0, "A")
	require.NoError(t, a.SetValueNames([]string{"a0", "a1"}))
	require.NoError(t, a.SetParents(nil, nil))
	aID, err := net.AddNode(a)
	require.NoError(t, err)
	a.ProbabilityMatrix.Set(0, 0, 0.5)
	a.ProbabilityMatrix.Set(0, 1, 0.5)

	b := node.New(0, "B")
	require.NoError(t, b.SetValueNames([]string{"b0", "b1"}))
	require.NoError(t, b.SetParents(nil, nil))
	bID, err := net.AddNode(b)
	require.NoError(t, err)
	b.ProbabilityMatrix.Set(0, 0, 0.6)
	b.ProbabilityMatrix.Set(0, 1, 0.4)

	c := node.New(0, "C")
	require.NoError(t, c.SetValueNames([]string{"c0", "c1"}))
	cID, err := net.AddNode(c)
	require.NoError(t, err)
	require.NoError(t, net.AddEdge(aID, cID))
	require.NoError(t, net.AddEdge(bID, cID))

	// rows ordered a*2+b, matching node.SetParents([a,b], [2,2]).
	rows := [][2]float64{
		{0.9, 0.1}, // a0,b0
		{0.8, 0.2}, // a0,b1
		{0.3, 0.7}, // a1,b0
		{0.1, 0.9}, // a1,b1
	}
	for row, vals := range rows {
		c.ProbabilityMatrix.Set(row, 0, vals[0])
		c.ProbabilityMatrix.Set(row, 1, vals[1])
	}

	return net, aID, bID, cID
}

func TestComputeTotalProbabilityMarginalizesParents(t *testing.T) {
	net, _, _, cID := buildABCNetwork(t)
	h := New(net)

	p, err := h.ComputeTotalProbability(cID, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.54, p, 1e-9)

	p1, err := h.ComputeTotalProbability(cID, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.46, p1, 1e-9)
	require.InDelta(t, 1.0, p+p1, 1e-9)
}

func TestComputeJointProbabilityWithFullEvidence(t *testing.T) {
	net, aID, bID, cID := buildABCNetwork(t)
	h := New(net)

	p, err := h.ComputeJointProbability([]int{cID}, map[int]int{aID: 0, bID: 0, cID: 0})
	require.NoError(t, err)
	require.InDelta(t, 0.27, p, 1e-9)
}

func TestComputeConditionalProbability(t *testing.T) {
	net, aID, _, cID := buildABCNetwork(t)
	h := New(net)

	p, err := h.ComputeConditionalProbability([]int{cID}, []int{aID}, map[int]int{cID: 0}, map[int]int{aID: 0})
	require.NoError(t, err)
	require.InDelta(t, 0.86, p, 1e-9)
}

func TestComputeConditionalProbabilityDegenerate(t *testing.T) {
	net, aID, _, _ := buildABCNetwork(t)
	h := New(net)
	net.Nodes()[aID].ProbabilityMatrix.Set(0, 1, 0) // force P(A=1) to zero

	_, err := h.ComputeConditionalProbability([]int{aID}, []int{aID}, map[int]int{aID: 0}, map[int]int{aID: 1})
	require.ErrorIs(t, err, errs.ErrDegenerateCondition)
}

func TestMaxSearchBreaksTiesLexicographically(t *testing.T) {
	net, aID, bID, _ := buildABCNetwork(t)
	h := New(net)

	p, assignment, err := h.MaxSearch([]int{aID, bID})
	require.NoError(t, err)
	require.InDelta(t, 0.3, p, 1e-9)
	require.Equal(t, []int{0, 0}, assignment)
}
