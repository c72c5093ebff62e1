// Package node implements the categorical random variable that a Bayesian
// network is built from: its value alphabet, its parent list, its observation
// counts, its CPT, and the mixed-radix row addressing that ties them together.
package node

import (
	"fmt"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/matrix"
)

// naLabel is the sentinel category that marks a missing observation. When
// present it must be the last entry of ValueNames.
const naLabel = "NA"

// Node is one categorical variable in the network.
type Node struct {
	id    int
	name  string
	State []string // value alphabet, in CPT-column order; may end in "NA"

	parents     []int // parent node IDs, CPT parent-axis order
	parentCards []int // cardinality of each parent, aligned with parents

	factor []int // mixed-radix weight per parent position

	// ObservationMatrix counts occurrences per (parent row, value column),
	// including the NA column if present.
	ObservationMatrix *matrix.Matrix[float64]
	// ProbabilityMatrix is the CPT: rows are parent combinations, columns are
	// non-NA values only. Populated by the trainer.
	ProbabilityMatrix *matrix.Matrix[float64]

	revFactor map[int][]int // row -> decoded parent value indices, memoized
}

// New creates a node with a dense ID and a name. Its value alphabet and
// parent list are filled in afterward by SetValueNames/SetParents.
func New(id int, name string) *Node {
	return &Node{id: id, name: name, revFactor: make(map[int][]int)}
}

// ID returns the node's dense index.
func (n *Node) ID() int { return n.id }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName renames the node (used when constructing twin-network copies).
func (n *Node) SetName(name string) { n.name = name }

// SetID reassigns the node's dense index (used when appending twin nodes).
func (n *Node) SetID(id int) { n.id = id }

// SetValueNames assigns the value alphabet. "NA" is only permitted as the
// final entry.
func (n *Node) SetValueNames(values []string) error {
	for i, v := range values {
		if v == naLabel && i != len(values)-1 {
			return fmt.Errorf("%w: NA must be the last value of node %s", errs.ErrParse, n.name)
		}
	}
	n.State = append([]string(nil), values...)
	return nil
}

// HasNA reports whether this node's alphabet carries the NA sentinel.
func (n *Node) HasNA() bool {
	return len(n.State) > 0 && n.State[len(n.State)-1] == naLabel
}

// Cardinality returns the number of non-NA categories.
func (n *Node) Cardinality() int {
	if n.HasNA() {
		return len(n.State) - 1
	}
	return len(n.State)
}

// UniqueValuesExcludingNA returns the value alphabet without the NA sentinel.
func (n *Node) UniqueValuesExcludingNA() []string {
	return n.State[:n.Cardinality()]
}

// ValueIndex returns the column index of a value name, NA included.
func (n *Node) ValueIndex(value string) (int, error) {
	for i, v := range n.State {
		if v == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: value %q of node %s", errs.ErrNotFound, value, n.name)
}

// Parents returns the parent node IDs, in CPT parent-axis order.
func (n *Node) Parents() []int { return n.parents }

// ParentCardinalities returns each parent's cardinality, aligned with Parents().
func (n *Node) ParentCardinalities() []int { return n.parentCards }

// SetParents fixes the node's parent list, their cardinalities, computes the
// mixed-radix factor table, and (re)allocates the observation/probability
// matrices to the resulting shape. Calling this again with the same parent
// ids and cardinalities, once the matrices exist for the current alphabet, is
// a no-op; any other call replaces the CPT.
func (n *Node) SetParents(parentIDs []int, parentCards []int) error {
	if len(parentIDs) != len(parentCards) {
		return fmt.Errorf("%w: %d parent ids vs %d cardinalities", errs.ErrShapeMismatch, len(parentIDs), len(parentCards))
	}
	seen := make(map[int]bool, len(parentIDs))
	for _, p := range parentIDs {
		if p == n.id {
			return fmt.Errorf("%w: node %s cannot be its own parent", errs.ErrParse, n.name)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate parent id %d for node %s", errs.ErrParse, p, n.name)
		}
		seen[p] = true
	}

	if intSliceEqual(n.parents, parentIDs) && intSliceEqual(n.parentCards, parentCards) &&
		n.ObservationMatrix != nil && n.ObservationMatrix.ColCount() == len(n.State) {
		return nil
	}

	n.parents = append([]int(nil), parentIDs...)
	n.parentCards = append([]int(nil), parentCards...)
	n.factor = computeFactors(parentCards)
	n.revFactor = make(map[int][]int)

	rowCount := n.RowCount()
	n.ObservationMatrix = matrix.New[float64](rowCount, len(n.State))
	n.ProbabilityMatrix = matrix.New[float64](rowCount, n.Cardinality())
	return nil
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

// computeFactors builds the right-to-left mixed-radix weights described in
// §4.2: factor[k-1] = 1, factor[i] = factor[i+1] * r_{i+1}.
func computeFactors(cards []int) []int {
	k := len(cards)
	factor := make([]int, k)
	running := 1
	for i := k - 1; i >= 0; i-- {
		factor[i] = running
		running *= cards[i]
	}
	return factor
}

// RowCount returns the number of parent-combination rows: the product of all
// parent cardinalities, or 1 for a root node.
func (n *Node) RowCount() int {
	rows := 1
	for _, c := range n.parentCards {
		rows *= c
	}
	return rows
}

// EncodeRow maps a concrete parent value assignment to its CPT row index.
func (n *Node) EncodeRow(values []int) (int, error) {
	if len(values) != len(n.parents) {
		return 0, fmt.Errorf("%w: expected %d parent values, got %d", errs.ErrShapeMismatch, len(n.parents), len(values))
	}
	row := 0
	for i, v := range values {
		if v < 0 || v >= n.parentCards[i] {
			return 0, fmt.Errorf("%w: parent %d value %d outside [0,%d)", errs.ErrOutOfDomain, n.parents[i], v, n.parentCards[i])
		}
		row += n.factor[i] * v
	}
	return row, nil
}

// DecodeRow returns the parent value index vector encoded by a CPT row,
// memoizing the result in the node's revFactor cache.
func (n *Node) DecodeRow(row int) ([]int, error) {
	if cached, ok := n.revFactor[row]; ok {
		return cached, nil
	}
	if row < 0 || row >= n.RowCount() {
		return nil, fmt.Errorf("%w: row %d outside [0,%d)", errs.ErrOutOfDomain, row, n.RowCount())
	}

	values := make([]int, len(n.parents))
	remaining := row
	for i := 0; i < len(n.parents); i++ {
		values[i] = remaining / n.factor[i]
		remaining = remaining % n.factor[i]
	}
	n.revFactor[row] = values
	return values, nil
}

// ClearCache drops the memoized row-decode cache. Twin-network copies start
// with a fresh cache rather than inheriting the original's.
func (n *Node) ClearCache() { n.revFactor = make(map[int][]int) }

// Copy returns a deep copy of the node, including its observation/probability
// matrices but with a fresh decode cache.
func (n *Node) Copy() *Node {
	cp := &Node{
		id:          n.id,
		name:        n.name,
		State:       append([]string(nil), n.State...),
		parents:     append([]int(nil), n.parents...),
		parentCards: append([]int(nil), n.parentCards...),
		factor:      append([]int(nil), n.factor...),
		revFactor:   make(map[int][]int),
	}
	if n.ObservationMatrix != nil {
		cp.ObservationMatrix = copyMatrix(n.ObservationMatrix)
	}
	if n.ProbabilityMatrix != nil {
		cp.ProbabilityMatrix = copyMatrix(n.ProbabilityMatrix)
	}
	return cp
}

func copyMatrix(m *matrix.Matrix[float64]) *matrix.Matrix[float64] {
	cp := matrix.New[float64](m.RowCount(), m.ColCount())
	for r := 0; r < m.RowCount(); r++ {
		copy(cp.Row(r), m.Row(r))
	}
	return cp
}

// Probability returns P(this = valueIdx | parent assignment = row).
func (n *Node) Probability(row, valueIdx int) (float64, error) {
	if valueIdx < 0 || valueIdx >= n.Cardinality() {
		return 0, fmt.Errorf("%w: value index %d of node %s", errs.ErrOutOfDomain, valueIdx, n.name)
	}
	if row < 0 || row >= n.RowCount() {
		return 0, fmt.Errorf("%w: row %d of node %s", errs.ErrOutOfDomain, row, n.name)
	}
	return n.ProbabilityMatrix.Get(row, valueIdx), nil
}

// CheckRowsNormalized verifies every CPT row sums to 1 within tolerance,
// invariant 4 of the data model.
func (n *Node) CheckRowsNormalized(tolerance float64) error {
	for row := 0; row < n.ProbabilityMatrix.RowCount(); row++ {
		sum := 0.0
		for col := 0; col < n.ProbabilityMatrix.ColCount(); col++ {
			sum += n.ProbabilityMatrix.Get(row, col)
		}
		if diff := sum - 1.0; diff > tolerance || diff < -tolerance {
			return fmt.Errorf("%w: node %s row %d sums to %f", errs.ErrShapeMismatch, n.name, row, sum)
		}
	}
	return nil
}
