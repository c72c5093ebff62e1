// Package matrix provides a generic, named-row/named-column 2-D container
// used for CPT storage, the network's adjacency matrix, and external sample
// matrices.
package matrix

import (
	"fmt"

	"github.com/causaltrail-go/engine/errs"
)

// Matrix is a row-major 2-D array with independent row-name and column-name
// sequences. Names are unique within their own axis; rows and columns may be
// looked up by name in addition to index.
type Matrix[T any] struct {
	data     [][]T
	rowNames []string
	colNames []string
	rowIndex map[string]int
	colIndex map[string]int
}

// New creates a rowCount x colCount matrix filled with the zero value of T.
func New[T any](rowCount, colCount int) *Matrix[T] {
	data := make([][]T, rowCount)
	for i := range data {
		data[i] = make([]T, colCount)
	}
	return &Matrix[T]{
		data:     data,
		rowNames: make([]string, rowCount),
		colNames: make([]string, colCount),
		rowIndex: make(map[string]int, rowCount),
		colIndex: make(map[string]int, colCount),
	}
}

// RowCount returns the number of rows.
func (m *Matrix[T]) RowCount() int { return len(m.data) }

// ColCount returns the number of columns.
func (m *Matrix[T]) ColCount() int {
	if len(m.data) == 0 {
		return len(m.colNames)
	}
	return len(m.data[0])
}

// Get returns the value at (row, col).
func (m *Matrix[T]) Get(row, col int) T { return m.data[row][col] }

// Set stores value at (row, col).
func (m *Matrix[T]) Set(row, col int, value T) { m.data[row][col] = value }

// Row returns the underlying slice for a row. Callers must not retain it
// across a subsequent SetRowNames/resize.
func (m *Matrix[T]) Row(row int) []T { return m.data[row] }

// SetRowNames assigns row names; len(names) must equal RowCount.
func (m *Matrix[T]) SetRowNames(names []string) error {
	if len(names) != m.RowCount() {
		return fmt.Errorf("%w: %d row names for %d rows", errs.ErrShapeMismatch, len(names), m.RowCount())
	}
	m.rowNames = append([]string(nil), names...)
	m.rowIndex = make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := m.rowIndex[n]; dup {
			return fmt.Errorf("%w: duplicate row name %q", errs.ErrParse, n)
		}
		m.rowIndex[n] = i
	}
	return nil
}

// SetColNames assigns column names; len(names) must equal ColCount.
func (m *Matrix[T]) SetColNames(names []string) error {
	if len(names) != m.ColCount() {
		return fmt.Errorf("%w: %d col names for %d cols", errs.ErrShapeMismatch, len(names), m.ColCount())
	}
	m.colNames = append([]string(nil), names...)
	m.colIndex = make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := m.colIndex[n]; dup {
			return fmt.Errorf("%w: duplicate column name %q", errs.ErrParse, n)
		}
		m.colIndex[n] = i
	}
	return nil
}

// RowNames returns the row-name sequence.
func (m *Matrix[T]) RowNames() []string { return m.rowNames }

// ColNames returns the column-name sequence.
func (m *Matrix[T]) ColNames() []string { return m.colNames }

// RowByName returns the row index for a row name.
func (m *Matrix[T]) RowByName(name string) (int, error) {
	idx, ok := m.rowIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: row %q", errs.ErrNotFound, name)
	}
	return idx, nil
}

// ColByName returns the column index for a column name.
func (m *Matrix[T]) ColByName(name string) (int, error) {
	idx, ok := m.colIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: column %q", errs.ErrNotFound, name)
	}
	return idx, nil
}
