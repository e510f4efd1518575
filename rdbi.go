// Package rdbi is an embeddable, single-node typed relational storage
// engine: fixed typed schemas, self-describing byte-buffer rows, two
// pluggable storage backends (in-memory and on-disk append-only), and an
// algebraic predicate language for filtering scans.
//
// # Basic usage
//
//	db := rdbi.NewDatabase()
//	err := db.NewTable("fruits", []rdbi.Column{
//		{Name: "id", DType: rdbi.U32()},
//		{Name: "name", DType: rdbi.Utf8(20)},
//	}, rdbi.InMemoryStorage())
//
//	_, err = db.Insert("fruits", []string{"id", "name"}, []rdbi.Row{
//		rdbi.RowOfColumns([][]byte{{100, 0, 0, 0}, []byte("apple")}),
//	})
//
//	rows, err := db.Select("fruits",
//		[]rdbi.Value{rdbi.ColumnRef("id"), rdbi.ColumnRef("name")},
//		rdbi.Eq(rdbi.ColumnRef("name"), rdbi.Const(rdbi.Utf8Value("apple"))))
package rdbi

import (
	"rdbi/internal/dtype"
	"rdbi/internal/engine"
	"rdbi/internal/predicate"
	"rdbi/internal/row"
	"rdbi/internal/schema"
)

// Database is the query executor façade: one schema and one storage
// backend per table, reachable through NewTable/Insert/Select/Delete.
type Database = engine.Database

// NewDatabase returns an empty Database with no tables.
func NewDatabase() *Database { return engine.New() }

// Column is one named, typed field of a table schema.
type Column = schema.Column

// TableSchema is the registered schema SchemaFor returns for a table:
// its ordered column list plus the row-size bounds derived from it.
type TableSchema = schema.Table

// StorageConfig selects the backend NewTable provisions for a table.
type StorageConfig = engine.StorageConfig

// InMemoryStorage provisions the packed in-memory arena backend.
func InMemoryStorage() StorageConfig { return engine.InMemoryStorage() }

// DiskStorage provisions the on-disk append-only tombstoned log backend
// rooted at path.
func DiskStorage(path string) StorageConfig { return engine.DiskStorage(path) }

// Row is a self-contained byte-buffer row: Data plus an Offsets vector.
type Row = row.Row

// RowOfColumns builds a Row by concatenating cols in the order given; Insert
// maps that order to the schema through its column-name list.
func RowOfColumns(cols [][]byte) Row { return row.OfColumns(cols) }

// DataType is the declared type of a column.
type DataType = dtype.DataType

// U32, F64, Utf8, VarBinary, and Buffer construct the members of the
// closed DataType lattice.
func U32() DataType                    { return dtype.U32() }
func F64() DataType                    { return dtype.F64() }
func Utf8(maxBytes int) DataType       { return dtype.Utf8(maxBytes) }
func VarBinary(maxLength int) DataType { return dtype.VarBinary(maxLength) }
func Buffer(length int) DataType       { return dtype.Buffer(length) }

// ColumnValue is a typed constant usable on either side of a predicate
// comparison.
type ColumnValue = dtype.ColumnValue

// U32Value, F64Value, Utf8Value, and BytesValue wrap Go values as typed
// ColumnValues.
func U32Value(v uint32) ColumnValue    { return dtype.U32Value(v) }
func F64Value(v float64) ColumnValue   { return dtype.F64Value(v) }
func Utf8Value(v string) ColumnValue   { return dtype.Utf8Value(v) }
func BytesValue(v []byte) ColumnValue { return dtype.BytesValue(v) }

// Value is one side of a predicate comparison: a column reference or a
// typed constant.
type Value = predicate.Value

// ColumnRef builds a Value that resolves against the row being scanned.
func ColumnRef(name string) Value { return predicate.ColumnRef(name) }

// Const builds a Value that always evaluates to v.
func Const(v ColumnValue) Value { return predicate.Const(v) }

// Bool is the predicate tree evaluated against each scanned row.
type Bool = predicate.Bool

// True matches every row; False matches none.
func True() Bool  { return predicate.True() }
func False() Bool { return predicate.False() }

// Eq, Neq, Gt, Gte, Lt, and Lte build typed binary comparisons.
func Eq(lhs, rhs Value) Bool  { return predicate.Eq(lhs, rhs) }
func Neq(lhs, rhs Value) Bool { return predicate.Neq(lhs, rhs) }
func Gt(lhs, rhs Value) Bool  { return predicate.Gt(lhs, rhs) }
func Gte(lhs, rhs Value) Bool { return predicate.Gte(lhs, rhs) }
func Lt(lhs, rhs Value) Bool  { return predicate.Lt(lhs, rhs) }
func Lte(lhs, rhs Value) Bool { return predicate.Lte(lhs, rhs) }

// Not, And, Or, and Xor build the boolean connectives over Bool subtrees.
func Not(x Bool) Bool    { return predicate.Not(x) }
func And(l, r Bool) Bool { return predicate.And(l, r) }
func Or(l, r Bool) Bool  { return predicate.Or(l, r) }
func Xor(l, r Bool) Bool { return predicate.Xor(l, r) }
