// Package schema holds the ordered, typed column list defining a table,
// and the projection/validation helpers the engine drives insert and
// select through.
package schema

import (
	"fmt"

	"rdbi/internal/dtype"
	"rdbi/internal/row"
)

// Column is one named, typed field of a table.
type Column struct {
	Name  string
	DType dtype.DataType
}

// Table is a schema: an ordered column list plus the row-size bounds the
// type lattice derives from it. Schemas are immutable after creation;
// there is no drop-table or alter-table operation.
type Table struct {
	Name       string
	Columns    []Column
	MinRowSize int
	MaxRowSize int
}

// New computes MinRowSize/MaxRowSize from cols and returns the schema.
// Column names are assumed unique by the caller; duplicate names are not
// rejected, but RequireColumn resolves to the first match.
func New(name string, cols []Column) Table {
	var min, max int
	for _, c := range cols {
		min += c.DType.MinSize()
		max += c.DType.MaxSize()
	}
	return Table{Name: name, Columns: cols, MinRowSize: min, MaxRowSize: max}
}

// ColumnNotFoundError reports that a referenced column name has no entry
// in the schema.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("schema: column not found: %q", e.Name)
}

// InvalidColumnCountError reports that an input (a row or a column-name
// list) did not have as many entries as the schema.
type InvalidColumnCountError struct {
	Expected int
	Got      int
}

func (e *InvalidColumnCountError) Error() string {
	return fmt.Sprintf("schema: invalid column count: expected %d, got %d", e.Expected, e.Got)
}

// RowSizeExceededError reports that a row's total byte length exceeds the
// schema's MaxRowSize.
type RowSizeExceededError struct {
	Got int
	Max int
}

func (e *RowSizeExceededError) Error() string {
	return fmt.Sprintf("schema: row size exceeded: got %d, max %d", e.Got, e.Max)
}

// RowSizeTooSmallError reports that a row's total byte length is below
// the schema's MinRowSize.
type RowSizeTooSmallError struct {
	Got int
	Min int
}

func (e *RowSizeTooSmallError) Error() string {
	return fmt.Sprintf("schema: row size too small: got %d, min %d", e.Got, e.Min)
}

// ColumnSizeOutOfBoundsError reports that one column's slice within a row
// does not fit its declared type's [min,max] byte bound.
type ColumnSizeOutOfBoundsError struct {
	Column string
	Got    int
	Min    int
	Max    int
}

func (e *ColumnSizeOutOfBoundsError) Error() string {
	return fmt.Sprintf("schema: column %q size out of bounds: got %d, min %d, max %d", e.Column, e.Got, e.Min, e.Max)
}

// RequireColumn looks a column up by name, returning its schema index.
func (t Table) RequireColumn(name string) (int, Column, error) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, c, nil
		}
	}
	return -1, Column{}, &ColumnNotFoundError{Name: name}
}

// ProjectOptional maps an input column-name list to schema indices, in
// the order given. Used for select projections and for validating filter
// columns referenced by a predicate (on both select and delete).
func (t Table) ProjectOptional(names []string) ([]int, error) {
	idxs := make([]int, len(names))
	for i, name := range names {
		idx, _, err := t.RequireColumn(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}
	return idxs, nil
}

// ProjectRequired maps every schema column to its position in the input
// names list (the reverse direction from ProjectOptional). It is used
// only for insert, where every column must be supplied exactly once.
func (t Table) ProjectRequired(names []string) ([]int, error) {
	if len(names) != len(t.Columns) {
		return nil, &InvalidColumnCountError{Expected: len(t.Columns), Got: len(names)}
	}

	inputIndexByName := make(map[string]int, len(names))
	for i, name := range names {
		inputIndexByName[name] = i
	}

	schemaToInput := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		inputIdx, ok := inputIndexByName[col.Name]
		if !ok {
			return nil, &ColumnNotFoundError{Name: col.Name}
		}
		schemaToInput[i] = inputIdx
	}
	return schemaToInput, nil
}

// ValidateInput checks a caller-supplied Row against the schema, given
// schemaToInput (the schema-column -> input-position map ProjectRequired
// produced). Validation runs to the first failure so that no partially
// validated row is ever passed to storage.
func (t Table) ValidateInput(r row.Row, schemaToInput []int) error {
	inputCols := r.NumColumns()
	if inputCols != len(t.Columns) {
		return &InvalidColumnCountError{Expected: len(t.Columns), Got: inputCols}
	}

	size := len(r.Data)
	if size > t.MaxRowSize {
		return &RowSizeExceededError{Got: size, Max: t.MaxRowSize}
	}
	if size < t.MinRowSize {
		return &RowSizeTooSmallError{Got: size, Min: t.MinRowSize}
	}

	for i, col := range t.Columns {
		inputIdx := schemaToInput[i]
		colSize := r.Offsets[inputIdx+1] - r.Offsets[inputIdx]
		min, max := col.DType.MinSize(), col.DType.MaxSize()
		if colSize < min || colSize > max {
			return &ColumnSizeOutOfBoundsError{Column: col.Name, Got: colSize, Min: min, Max: max}
		}
	}
	return nil
}
