package matrix

import (
	"errors"
	"testing"

	"github.com/causaltrail-go/engine/errs"
)

func TestMatrixGetSet(t *testing.T) {
	m := New[int](2, 3)
	m.Set(0, 0, 5)
	m.Set(1, 2, 9)

	if m.Get(0, 0) != 5 {
		t.Errorf("Get(0,0) = %d, want 5", m.Get(0, 0))
	}
	if m.Get(1, 2) != 9 {
		t.Errorf("Get(1,2) = %d, want 9", m.Get(1, 2))
	}
	if m.RowCount() != 2 || m.ColCount() != 3 {
		t.Errorf("dims = %d x %d, want 2 x 3", m.RowCount(), m.ColCount())
	}
}

func TestMatrixNameLookup(t *testing.T) {
	m := New[float64](2, 2)
	if err := m.SetRowNames([]string{"r0", "r1"}); err != nil {
		t.Fatalf("SetRowNames: %v", err)
	}
	if err := m.SetColNames([]string{"c0", "c1"}); err != nil {
		t.Fatalf("SetColNames: %v", err)
	}

	idx, err := m.RowByName("r1")
	if err != nil || idx != 1 {
		t.Errorf("RowByName(r1) = %d, %v; want 1, nil", idx, err)
	}

	idx, err = m.ColByName("c0")
	if err != nil || idx != 0 {
		t.Errorf("ColByName(c0) = %d, %v; want 0, nil", idx, err)
	}

	if _, err := m.RowByName("missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("RowByName(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMatrixSetRowNamesShapeMismatch(t *testing.T) {
	m := New[int](2, 2)
	err := m.SetRowNames([]string{"only-one"})
	if !errors.Is(err, errs.ErrShapeMismatch) {
		t.Errorf("SetRowNames wrong length error = %v, want ErrShapeMismatch", err)
	}
}

func TestMatrixSetRowNamesDuplicate(t *testing.T) {
	m := New[int](2, 1)
	err := m.SetRowNames([]string{"a", "a"})
	if !errors.Is(err, errs.ErrParse) {
		t.Errorf("SetRowNames duplicate error = %v, want ErrParse", err)
	}
}
