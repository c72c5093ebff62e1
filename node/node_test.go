package node

import (
	"errors"
	"testing"

	"github.com/causaltrail-go/engine/errs"
	"github.com/stretchr/testify/require"
)

func TestSetValueNamesRejectsMisplacedNA(t *testing.T) {
	n := New(0, "Grade")
	err := n.SetValueNames([]string{"NA", "g1", "g2"})
	require.ErrorIs(t, err, errs.ErrParse)
}

func TestCardinalityExcludesNA(t *testing.T) {
	n := New(0, "Grade")
	require.NoError(t, n.SetValueNames([]string{"g1", "g2", "g3", "NA"}))

	require.True(t, n.HasNA())
	require.Equal(t, 3, n.Cardinality())
	require.Equal(t, []string{"g1", "g2", "g3"}, n.UniqueValuesExcludingNA())
}

func TestEncodeDecodeRowRoundTrip(t *testing.T) {
	// Grade depends on Difficulty (card 2) and Intelligence (card 2), matching
	// the Student network's canonical layout.
	grade := New(2, "Grade")
	require.NoError(t, grade.SetValueNames([]string{"g1", "g2", "g3"}))
	require.NoError(t, grade.SetParents([]int{0, 1}, []int{2, 2}))

	require.Equal(t, 4, grade.RowCount())

	for d := 0; d < 2; d++ {
		for i := 0; i < 2; i++ {
			row, err := grade.EncodeRow([]int{d, i})
			require.NoError(t, err)

			decoded, err := grade.DecodeRow(row)
			require.NoError(t, err)
			require.Equal(t, []int{d, i}, decoded)
		}
	}
}

func TestEncodeRowOutOfDomain(t *testing.T) {
	n := New(0, "Letter")
	require.NoError(t, n.SetValueNames([]string{"l0", "l1"}))
	require.NoError(t, n.SetParents([]int{1}, []int{3}))

	_, err := n.EncodeRow([]int{3})
	require.ErrorIs(t, err, errs.ErrOutOfDomain)
}

func TestDecodeRowMemoizes(t *testing.T) {
	n := New(0, "SAT")
	require.NoError(t, n.SetValueNames([]string{"s0", "s1"}))
	require.NoError(t, n.SetParents([]int{1}, []int{2}))

	first, err := n.DecodeRow(1)
	require.NoError(t, err)

	cached, ok := n.revFactor[1]
	require.True(t, ok)
	require.Equal(t, first, cached)
}

func TestDecodeRowOutOfRange(t *testing.T) {
	n := New(0, "X")
	require.NoError(t, n.SetValueNames([]string{"a", "b"}))
	require.NoError(t, n.SetParents(nil, nil))

	_, err := n.DecodeRow(5)
	require.True(t, errors.Is(err, errs.ErrOutOfDomain))
}

func TestSetParentsRejectsSelfParent(t *testing.T) {
	n := New(3, "X")
	require.NoError(t, n.SetValueNames([]string{"a", "b"}))
	err := n.SetParents([]int{3}, []int{2})
	require.ErrorIs(t, err, errs.ErrParse)
}

func TestCheckRowsNormalized(t *testing.T) {
	n := New(0, "Coin")
	require.NoError(t, n.SetValueNames([]string{"h", "t"}))
	require.NoError(t, n.SetParents(nil, nil))

	n.ProbabilityMatrix.Set(0, 0, 0.5)
	n.ProbabilityMatrix.Set(0, 1, 0.5)
	require.NoError(t, n.CheckRowsNormalized(1e-9))

	n.ProbabilityMatrix.Set(0, 1, 0.4)
	require.ErrorIs(t, n.CheckRowsNormalized(1e-9), errs.ErrShapeMismatch)
}

func TestSetParentsIsNoOpWhenUnchanged(t *testing.T) {
	n := New(0, "X")
	require.NoError(t, n.SetValueNames([]string{"a", "b"}))
	require.NoError(t, n.SetParents([]int{1}, []int{2}))

	n.ObservationMatrix.Set(0, 0, 5)
	n.ObservationMatrix.Set(1, 1, 9)

	require.NoError(t, n.SetParents([]int{1}, []int{2}))

	require.Equal(t, 5.0, n.ObservationMatrix.Get(0, 0))
	require.Equal(t, 9.0, n.ObservationMatrix.Get(1, 1))
}

func TestSetParentsReallocatesWhenShapeChanges(t *testing.T) {
	n := New(0, "X")
	require.NoError(t, n.SetValueNames([]string{"a", "b"}))
	require.NoError(t, n.SetParents([]int{1}, []int{2}))

	n.ObservationMatrix.Set(0, 0, 5)

	require.NoError(t, n.SetParents([]int{1, 2}, []int{2, 3}))

	require.Equal(t, 6, n.RowCount())
	require.Equal(t, 0.0, n.ObservationMatrix.Get(0, 0))
}

func TestCopyIsIndependent(t *testing.T) {
	n := New(0, "X")
	require.NoError(t, n.SetValueNames([]string{"a", "b"}))
	require.NoError(t, n.SetParents(nil, nil))
	n.ProbabilityMatrix.Set(0, 0, 0.3)

	cp := n.Copy()
	cp.ProbabilityMatrix.Set(0, 0, 0.9)

	require.Equal(t, 0.3, n.ProbabilityMatrix.Get(0, 0))
	require.Equal(t, 0.9, cp.ProbabilityMatrix.Get(0, 0))
}
