package engine

import (
	"fmt"

	"rdbi/internal/dtype"
)

// TableNotFoundError reports that an operation named a table with no
// matching schema/storage entry.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("engine: table not found: %q", e.Name)
}

// TableAlreadyExistsError reports that NewTable named a table that
// already has a schema or storage entry.
type TableAlreadyExistsError struct {
	Name string
}

func (e *TableAlreadyExistsError) Error() string {
	return fmt.Sprintf("engine: table already exists: %q", e.Name)
}

// EmptyTableSchemaError reports that NewTable was given zero columns.
type EmptyTableSchemaError struct {
	Name string
}

func (e *EmptyTableSchemaError) Error() string {
	return fmt.Sprintf("engine: table %q has an empty schema", e.Name)
}

// UnsupportedOperationError reports a request shape the engine never
// supports, such as a Const in a projection list.
type UnsupportedOperationError struct {
	Msg string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("engine: unsupported operation: %s", e.Msg)
}

// QueryError wraps a type error surfaced while evaluating a predicate,
// most commonly dtype.TypeMismatchError.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("engine: query error: %s", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IntegrityError reports that a stored column's bytes could not be
// decoded as the schema declares it, for a specific table/row/column.
// This indicates storage corruption or a schema/data mismatch, never a
// caller input mistake.
type IntegrityError struct {
	Table  string
	RowId  uint64
	Column string
	DType  dtype.DataType
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("engine: integrity error: table %q row %d column %q (%s) could not be decoded",
		e.Table, e.RowId, e.Column, e.DType)
}
