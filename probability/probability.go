// Package probability implements the query operations of a Bayesian
// network: marginal ("total") probability, joint probability, conditional
// probability, and MAP ("argmax") search.
package probability

import (
	"fmt"
	"sort"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/network"
)

// Handler answers probability queries against a network it does not own.
type Handler struct {
	net *network.Network
}

// New returns a Handler borrowing net for the duration of its calls.
func New(net *network.Network) *Handler {
	return &Handler{net: net}
}

// ComputeTotalProbability returns P(node = valueIdx), marginalizing over the
// node's parents. A root node returns its single CPT cell directly. Each
// parent's contribution is its own total probability, computed recursively;
// results are memoized for the duration of one call so a diamond-shaped
// ancestry is not recomputed per branch.
func (h *Handler) ComputeTotalProbability(nodeID, valueIdx int) (float64, error) {
	cache := make(map[[2]int]float64)
	return h.totalProbability(nodeID, valueIdx, cache)
}

func (h *Handler) totalProbability(nodeID, valueIdx int, cache map[[2]int]float64) (float64, error) {
	key := [2]int{nodeID, valueIdx}
	if v, ok := cache[key]; ok {
		return v, nil
	}

	n, err := h.net.Node(nodeID)
	if err != nil {
		return 0, err
	}
	if valueIdx < 0 || valueIdx >= n.Cardinality() {
		return 0, fmt.Errorf("%w: value index %d of node %s", errs.ErrOutOfDomain, valueIdx, n.Name())
	}

	parents := n.Parents()
	if len(parents) == 0 {
		p, err := n.Probability(0, valueIdx)
		if err != nil {
			return 0, err
		}
		cache[key] = p
		return p, nil
	}

	sum := 0.0
	for row := 0; row < n.RowCount(); row++ {
		parentValues, err := n.DecodeRow(row)
		if err != nil {
			return 0, err
		}
		rowProb := 1.0
		for i, pID := range parents {
			pProb, err := h.totalProbability(pID, parentValues[i], cache)
			if err != nil {
				return 0, err
			}
			rowProb *= pProb
		}
		cellProb, err := n.Probability(row, valueIdx)
		if err != nil {
			return 0, err
		}
		sum += cellProb * rowProb
	}

	cache[key] = sum
	return sum, nil
}

// ComputeJointProbability returns P(⋀ queryNodes = assignment[queryNodes]),
// with any additional entries of assignment baked in as evidence. It
// enumerates every free extension of the queried-plus-ancestor node set and
// sums the chain-rule product over each.
func (h *Handler) ComputeJointProbability(queryNodes []int, assignment map[int]int) (float64, error) {
	relevant, err := h.relevantAncestry(queryNodes, assignment)
	if err != nil {
		return 0, err
	}

	var free []int
	for _, id := range relevant {
		if _, fixed := assignment[id]; !fixed {
			free = append(free, id)
		}
	}

	sum := 0.0
	full := make(map[int]int, len(relevant))
	for k, v := range assignment {
		full[k] = v
	}

	var enumErr error
	enumerate(h.net, free, 0, full, func(complete map[int]int) {
		if enumErr != nil {
			return
		}
		product := 1.0
		for _, id := range relevant {
			n, err := h.net.Node(id)
			if err != nil {
				enumErr = err
				return
			}
			parentValues := make([]int, len(n.Parents()))
			for i, p := range n.Parents() {
				parentValues[i] = complete[p]
			}
			row, err := n.EncodeRow(parentValues)
			if err != nil {
				enumErr = err
				return
			}
			p, err := n.Probability(row, complete[id])
			if err != nil {
				enumErr = err
				return
			}
			product *= p
		}
		sum += product
	})
	if enumErr != nil {
		return 0, enumErr
	}
	return sum, nil
}

// relevantAncestry returns queryNodes ∪ keys(assignment) ∪ their transitive
// parents, deduplicated.
func (h *Handler) relevantAncestry(queryNodes []int, assignment map[int]int) ([]int, error) {
	seed := make(map[int]bool)
	for _, id := range queryNodes {
		seed[id] = true
	}
	for id := range assignment {
		seed[id] = true
	}

	visited := make(map[int]bool)
	var queue []int
	for id := range seed {
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		parents, err := h.net.Parents(id)
		if err != nil {
			return nil, err
		}
		queue = append(queue, parents...)
	}

	result := make([]int, 0, len(visited))
	for id := range visited {
		result = append(result, id)
	}
	sort.Ints(result)
	return result, nil
}

// enumerate recursively assigns every value to each free node in turn,
// invoking visit once per complete extension. This mirrors the depth-first
// assignment enumeration used to walk a discrete factor's support.
func enumerate(net *network.Network, free []int, idx int, current map[int]int, visit func(map[int]int)) {
	if idx == len(free) {
		visit(current)
		return
	}
	id := free[idx]
	n, err := net.Node(id)
	if err != nil {
		return
	}
	for v := 0; v < n.Cardinality(); v++ {
		current[id] = v
		enumerate(net, free, idx+1, current, visit)
	}
	delete(current, id)
}

// ComputeConditionalProbability returns
// P(numNodes=numAssign | denNodes=denAssign) = joint(num∪den)/joint(den).
func (h *Handler) ComputeConditionalProbability(numNodes, denNodes []int, numAssign, denAssign map[int]int) (float64, error) {
	merged := make(map[int]int, len(numAssign)+len(denAssign))
	for k, v := range denAssign {
		merged[k] = v
	}
	for k, v := range numAssign {
		merged[k] = v
	}

	denominator, err := h.ComputeJointProbability(denNodes, denAssign)
	if err != nil {
		return 0, err
	}
	if denominator == 0 {
		return 0, fmt.Errorf("%w: P(%v) = 0", errs.ErrDegenerateCondition, denAssign)
	}

	combined := append(append([]int(nil), numNodes...), denNodes...)
	numerator, err := h.ComputeJointProbability(combined, merged)
	if err != nil {
		return 0, err
	}
	return numerator / denominator, nil
}

// MaxSearch enumerates every joint assignment to nodes and returns the
// highest-probability one together with its probability. Ties break on the
// lexicographically smallest assignment, compared node by node in the order
// nodes was given.
func (h *Handler) MaxSearch(nodes []int) (float64, []int, error) {
	var bestProb float64
	var best []int
	first := true

	var enumErr error
	enumerate(h.net, nodes, 0, make(map[int]int), func(complete map[int]int) {
		if enumErr != nil {
			return
		}
		assignment := make([]int, len(nodes))
		for i, id := range nodes {
			assignment[i] = complete[id]
		}
		p, err := h.ComputeJointProbability(nodes, cloneAssignment(complete))
		if err != nil {
			enumErr = err
			return
		}
		if first || p > bestProb || (p == bestProb && lexLess(assignment, best)) {
			bestProb = p
			best = assignment
			first = false
		}
	})
	if enumErr != nil {
		return 0, nil, enumErr
	}
	return bestProb, best, nil
}

func cloneAssignment(m map[int]int) map[int]int {
	cp := make(map[int]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func lexLess(a, b []int) bool {
	if b == nil {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
