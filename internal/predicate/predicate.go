// Package predicate is the algebraic query language: Value (a column
// reference or a typed constant) and Bool (a tree of comparisons and
// boolean connectives) that the engine evaluates row by row during a
// scan.
package predicate

import "rdbi/internal/dtype"

// Value is one side of a comparison: either a reference to a schema
// column, resolved against the row being evaluated, or a typed constant
// baked in at predicate-construction time.
type Value struct {
	isConst bool
	column  string
	constV  dtype.ColumnValue
}

// ColumnRef builds a Value that resolves to the named column's decoded
// content at evaluation time.
func ColumnRef(name string) Value {
	return Value{column: name}
}

// Const builds a Value that always evaluates to v, regardless of row.
// Constants are typed at construction — there is no raw-bytes constant
// variant; decoding happens only once, at storage ingress.
func Const(v dtype.ColumnValue) Value {
	return Value{isConst: true, constV: v}
}

// ColumnName returns the referenced column name and whether this Value is
// a ColumnRef (as opposed to a Const).
func (v Value) ColumnName() (string, bool) {
	if v.isConst {
		return "", false
	}
	return v.column, true
}

// compareOp names a binary comparison, for Eq/Neq/Gt/Gte/Lt/Lte nodes.
type compareOp int

const (
	opEq compareOp = iota
	opNeq
	opGt
	opGte
	opLt
	opLte
)

// boolKind discriminates Bool's variants.
type boolKind int

const (
	kindTrue boolKind = iota
	kindFalse
	kindCompare
	kindNot
	kindAnd
	kindOr
	kindXor
)

// Bool is the predicate tree: the True/False constants, typed
// comparisons between two Values, and the boolean connectives Not/And/
// Or/Xor over subtrees.
type Bool struct {
	kind    boolKind
	op      compareOp
	lhs     Value
	rhs     Value
	operand *Bool
	left    *Bool
	right   *Bool
}

// True is the predicate that matches every row.
func True() Bool { return Bool{kind: kindTrue} }

// False is the predicate that matches no row.
func False() Bool { return Bool{kind: kindFalse} }

// Eq builds `lhs == rhs`.
func Eq(lhs, rhs Value) Bool { return compareNode(opEq, lhs, rhs) }

// Neq builds `lhs != rhs`.
func Neq(lhs, rhs Value) Bool { return compareNode(opNeq, lhs, rhs) }

// Gt builds `lhs > rhs`.
func Gt(lhs, rhs Value) Bool { return compareNode(opGt, lhs, rhs) }

// Gte builds `lhs >= rhs`.
func Gte(lhs, rhs Value) Bool { return compareNode(opGte, lhs, rhs) }

// Lt builds `lhs < rhs`.
func Lt(lhs, rhs Value) Bool { return compareNode(opLt, lhs, rhs) }

// Lte builds `lhs <= rhs`.
func Lte(lhs, rhs Value) Bool { return compareNode(opLte, lhs, rhs) }

func compareNode(op compareOp, lhs, rhs Value) Bool {
	return Bool{kind: kindCompare, op: op, lhs: lhs, rhs: rhs}
}

// Not negates x.
func Not(x Bool) Bool { return Bool{kind: kindNot, operand: &x} }

// And builds `l && r`. Both sides are always evaluated; there is no
// short-circuit requirement, so a side with an integrity error still
// surfaces it even when the other side alone would decide the result.
func And(l, r Bool) Bool { return Bool{kind: kindAnd, left: &l, right: &r} }

// Or builds `l || r`, with the same no-short-circuit evaluation as And.
func Or(l, r Bool) Bool { return Bool{kind: kindOr, left: &l, right: &r} }

// Xor builds `l != r` over the two boolean subtrees.
func Xor(l, r Bool) Bool { return Bool{kind: kindXor, left: &l, right: &r} }

// And is the fluent form of And(b, other), letting callers chain
// predicates without hand-nesting composite literals.
func (b Bool) And(other Bool) Bool { return And(b, other) }

// Or is the fluent form of Or(b, other).
func (b Bool) Or(other Bool) Bool { return Or(b, other) }
