// Package dtype defines the type lattice of rdbi's column values: the
// fixed set of DataTypes a column can be declared with, and the typed,
// borrowing ColumnValue union that predicates and scans operate on.
package dtype

import "fmt"

// DataType is the declared type of a column. It is a closed set; there is
// no user-defined or composite type.
type DataType struct {
	kind      kind
	maxBytes  int // Utf8.max_bytes
	maxLength int // VarBinary.max_length
	length    int // Buffer.length
}

type kind uint8

const (
	kindU32 kind = iota
	kindF64
	kindUtf8
	kindVarBinary
	kindBuffer
)

// U32 is a fixed 4-byte little-endian unsigned integer.
func U32() DataType { return DataType{kind: kindU32} }

// F64 is a fixed 8-byte little-endian IEEE-754 double.
func F64() DataType { return DataType{kind: kindF64} }

// Utf8 holds 0..=maxBytes bytes of valid UTF-8.
func Utf8(maxBytes int) DataType { return DataType{kind: kindUtf8, maxBytes: maxBytes} }

// VarBinary holds 0..=maxLength bytes of opaque data.
func VarBinary(maxLength int) DataType { return DataType{kind: kindVarBinary, maxLength: maxLength} }

// Buffer holds exactly length bytes of opaque data.
func Buffer(length int) DataType { return DataType{kind: kindBuffer, length: length} }

// MinSize returns the minimum number of bytes a column of this type may
// occupy in a row buffer.
func (d DataType) MinSize() int {
	switch d.kind {
	case kindU32:
		return 4
	case kindF64:
		return 8
	case kindUtf8, kindVarBinary:
		return 0
	case kindBuffer:
		return d.length
	default:
		panic("dtype: unknown kind")
	}
}

// MaxSize returns the maximum number of bytes a column of this type may
// occupy in a row buffer.
func (d DataType) MaxSize() int {
	switch d.kind {
	case kindU32:
		return 4
	case kindF64:
		return 8
	case kindUtf8:
		return d.maxBytes
	case kindVarBinary:
		return d.maxLength
	case kindBuffer:
		return d.length
	default:
		panic("dtype: unknown kind")
	}
}

// String renders the type the way error messages and %v formatting show
// it (e.g. "Utf8{max_bytes=20}").
func (d DataType) String() string {
	switch d.kind {
	case kindU32:
		return "U32"
	case kindF64:
		return "F64"
	case kindUtf8:
		return fmt.Sprintf("Utf8{max_bytes=%d}", d.maxBytes)
	case kindVarBinary:
		return fmt.Sprintf("VarBinary{max_length=%d}", d.maxLength)
	case kindBuffer:
		return fmt.Sprintf("Buffer{length=%d}", d.length)
	default:
		return "Unknown"
	}
}

// Equal reports whether two DataTypes describe the same kind and bound.
// It is plain struct equality: each constructor leaves the bound fields of
// the other kinds at zero.
func (d DataType) Equal(other DataType) bool {
	return d == other
}
