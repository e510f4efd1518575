package dtype

import "fmt"

// ColumnValue is a tagged, borrowing union of the typed values a decoded
// column can hold. A decoded Bytes value aliases the byte slice it was
// decoded from; callers must not retain it past the lifetime of the
// backing storage it was decoded from. A decoded Utf8 value is a copy.
type ColumnValue struct {
	kind kind
	u32  uint32
	f64  float64
	str  string
	byt  []byte
}

// U32Value wraps a u32 constant.
func U32Value(v uint32) ColumnValue { return ColumnValue{kind: kindU32, u32: v} }

// F64Value wraps an f64 constant.
func F64Value(v float64) ColumnValue { return ColumnValue{kind: kindF64, f64: v} }

// Utf8Value wraps a borrowed UTF-8 string.
func Utf8Value(v string) ColumnValue { return ColumnValue{kind: kindUtf8, str: v} }

// BytesValue wraps borrowed opaque bytes (used for both VarBinary and
// Buffer columns; they decode to the same ColumnValue shape).
func BytesValue(v []byte) ColumnValue { return ColumnValue{kind: kindBuffer, byt: v} }

// Kind-introspection used only for error messages; same closed set as
// DataType but reported via the constant whose value was actually decoded,
// not the declared column width.
func (v ColumnValue) dtypeForError() DataType {
	switch v.kind {
	case kindU32:
		return U32()
	case kindF64:
		return F64()
	case kindUtf8:
		return Utf8(len(v.str))
	default:
		return Buffer(len(v.byt))
	}
}

// U32 returns the wrapped value and whether this ColumnValue is a U32.
func (v ColumnValue) U32() (uint32, bool) {
	if v.kind != kindU32 {
		return 0, false
	}
	return v.u32, true
}

// F64 returns the wrapped value and whether this ColumnValue is an F64.
func (v ColumnValue) F64() (float64, bool) {
	if v.kind != kindF64 {
		return 0, false
	}
	return v.f64, true
}

// Utf8 returns the wrapped string and whether this ColumnValue is Utf8.
func (v ColumnValue) Utf8() (string, bool) {
	if v.kind != kindUtf8 {
		return "", false
	}
	return v.str, true
}

// Bytes returns the wrapped bytes and whether this ColumnValue is a byte
// variant (VarBinary or Buffer alike decode into the same shape).
func (v ColumnValue) Bytes() ([]byte, bool) {
	if v.kind != kindBuffer {
		return nil, false
	}
	return v.byt, true
}

// TypeMismatchError reports that an operator was applied to a pair of
// ColumnValues whose variants it is not defined for.
type TypeMismatchError struct {
	Op       string
	LhsDType DataType
	RhsDType DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("dtype: type mismatch: %s not defined for (%s, %s)", e.Op, e.LhsDType, e.RhsDType)
}

func mismatch(op string, l, r ColumnValue) error {
	return &TypeMismatchError{Op: op, LhsDType: l.dtypeForError(), RhsDType: r.dtypeForError()}
}

// Eq reports l == r. Defined for U32, F64, Utf8, and Bytes pairs.
func Eq(l, r ColumnValue) (bool, error) {
	if l.kind != r.kind {
		return false, mismatch("eq", l, r)
	}
	switch l.kind {
	case kindU32:
		return l.u32 == r.u32, nil
	case kindF64:
		return l.f64 == r.f64, nil
	case kindUtf8:
		return l.str == r.str, nil
	case kindBuffer:
		return string(l.byt) == string(r.byt), nil
	default:
		return false, mismatch("eq", l, r)
	}
}

// Neq reports l != r. Defined for the same pairs as Eq.
func Neq(l, r ColumnValue) (bool, error) {
	eq, err := Eq(l, r)
	if err != nil {
		return false, &TypeMismatchError{Op: "neq", LhsDType: l.dtypeForError(), RhsDType: r.dtypeForError()}
	}
	return !eq, nil
}

// Gt reports l > r. Defined only for U32 and F64 pairs.
func Gt(l, r ColumnValue) (bool, error) {
	switch {
	case l.kind == kindU32 && r.kind == kindU32:
		return l.u32 > r.u32, nil
	case l.kind == kindF64 && r.kind == kindF64:
		return l.f64 > r.f64, nil
	default:
		return false, mismatch("gt", l, r)
	}
}

// Gte reports l >= r. Defined only for U32 and F64 pairs.
func Gte(l, r ColumnValue) (bool, error) {
	switch {
	case l.kind == kindU32 && r.kind == kindU32:
		return l.u32 >= r.u32, nil
	case l.kind == kindF64 && r.kind == kindF64:
		return l.f64 >= r.f64, nil
	default:
		return false, mismatch("gte", l, r)
	}
}

// Lt reports l < r. Defined only for U32 and F64 pairs.
func Lt(l, r ColumnValue) (bool, error) {
	switch {
	case l.kind == kindU32 && r.kind == kindU32:
		return l.u32 < r.u32, nil
	case l.kind == kindF64 && r.kind == kindF64:
		return l.f64 < r.f64, nil
	default:
		return false, mismatch("lt", l, r)
	}
}

// Lte reports l <= r. Defined only for U32 and F64 pairs.
func Lte(l, r ColumnValue) (bool, error) {
	switch {
	case l.kind == kindU32 && r.kind == kindU32:
		return l.u32 <= r.u32, nil
	case l.kind == kindF64 && r.kind == kindF64:
		return l.f64 <= r.f64, nil
	default:
		return false, mismatch("lte", l, r)
	}
}
