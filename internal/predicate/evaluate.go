package predicate

import "rdbi/internal/dtype"

// Resolve looks up the decoded value a ColumnRef names. Callers supply
// this to bind column resolution (schema lookup, storage decode, and any
// wrapping into an integrity error) to one scan row without the
// predicate tree needing to know about schemas or storage at all.
type Resolve func(column string) (dtype.ColumnValue, error)

// Evaluate walks b recursively against one row via resolve. Comparison
// operators report a type mismatch exactly as dtype.Eq/Gt/etc. do; column
// resolution failures (typically a storage decode error wrapped by the
// caller into an integrity error) are returned unwrapped, so Evaluate
// never swallows or reclassifies an error it didn't produce itself.
func Evaluate(b Bool, resolve Resolve) (bool, error) {
	switch b.kind {
	case kindTrue:
		return true, nil
	case kindFalse:
		return false, nil
	case kindCompare:
		lhs, err := resolveValue(b.lhs, resolve)
		if err != nil {
			return false, err
		}
		rhs, err := resolveValue(b.rhs, resolve)
		if err != nil {
			return false, err
		}
		return compare(b.op, lhs, rhs)
	case kindNot:
		v, err := Evaluate(*b.operand, resolve)
		if err != nil {
			return false, err
		}
		return !v, nil
	case kindAnd:
		l, lerr := Evaluate(*b.left, resolve)
		r, rerr := Evaluate(*b.right, resolve)
		if lerr != nil {
			return false, lerr
		}
		if rerr != nil {
			return false, rerr
		}
		return l && r, nil
	case kindOr:
		l, lerr := Evaluate(*b.left, resolve)
		r, rerr := Evaluate(*b.right, resolve)
		if lerr != nil {
			return false, lerr
		}
		if rerr != nil {
			return false, rerr
		}
		return l || r, nil
	case kindXor:
		l, lerr := Evaluate(*b.left, resolve)
		r, rerr := Evaluate(*b.right, resolve)
		if lerr != nil {
			return false, lerr
		}
		if rerr != nil {
			return false, rerr
		}
		return l != r, nil
	default:
		return false, nil
	}
}

func resolveValue(v Value, resolve Resolve) (dtype.ColumnValue, error) {
	if v.isConst {
		return v.constV, nil
	}
	return resolve(v.column)
}

func compare(op compareOp, l, r dtype.ColumnValue) (bool, error) {
	switch op {
	case opEq:
		return dtype.Eq(l, r)
	case opNeq:
		return dtype.Neq(l, r)
	case opGt:
		return dtype.Gt(l, r)
	case opGte:
		return dtype.Gte(l, r)
	case opLt:
		return dtype.Lt(l, r)
	case opLte:
		return dtype.Lte(l, r)
	default:
		panic("predicate: unknown compare op")
	}
}

// CollectFilterColumns returns every column name referenced anywhere in
// b, in first-occurrence order with duplicates removed. Used to validate
// filter columns against a schema before a scan begins.
func CollectFilterColumns(b Bool) []string {
	var out []string
	seen := make(map[string]bool)
	collect(b, &out, seen)
	return out
}

func collect(b Bool, out *[]string, seen map[string]bool) {
	switch b.kind {
	case kindCompare:
		collectValue(b.lhs, out, seen)
		collectValue(b.rhs, out, seen)
	case kindNot:
		collect(*b.operand, out, seen)
	case kindAnd, kindOr, kindXor:
		collect(*b.left, out, seen)
		collect(*b.right, out, seen)
	}
}

func collectValue(v Value, out *[]string, seen map[string]bool) {
	name, ok := v.ColumnName()
	if !ok || seen[name] {
		return
	}
	seen[name] = true
	*out = append(*out, name)
}
