package expression

import "fmt"

// Record exposes the field values of a screened instrument
type Record interface {
	// NumberField returns the value of a numeric field
	NumberField(name string) (float64, bool)
	// StringField returns the value of a string field
	StringField(name string) (string, bool)
}

// Evaluate reports whether the record satisfies the expression.
// AND and OR short-circuit from left to right.
func Evaluate(node Node, rec Record) (bool, error) {
	switch n := node.(type) {
	case *Comparison:
		return compare(n, rec)

	case *Logical:
		left, err := Evaluate(n.Left, rec)
		if err != nil {
			return false, err
		}
		if n.Operator == OpAnd && !left {
			return false, nil
		}
		if n.Operator == OpOr && left {
			return true, nil
		}
		return Evaluate(n.Right, rec)

	case *Not:
		v, err := Evaluate(n.Operand, rec)
		if err != nil {
			return false, err
		}
		return !v, nil

	default:
		return false, fmt.Errorf("cannot evaluate node of type %T", node)
	}
}

func compare(n *Comparison, rec Record) (bool, error) {
	if n.Value.IsString() {
		actual, ok := rec.StringField(n.Field)
		if !ok {
			return false, fmt.Errorf("record has no string field %q", n.Field)
		}
		switch n.Operator {
		case OpEQ:
			return actual == n.Value.Text(), nil
		case OpNEQ:
			return actual != n.Value.Text(), nil
		default:
			return false, fmt.Errorf("operator %s is not supported for string field %q", n.Operator, n.Field)
		}
	}

	actual, ok := rec.NumberField(n.Field)
	if !ok {
		return false, fmt.Errorf("record has no numeric field %q", n.Field)
	}
	want := n.Value.Number()
	switch n.Operator {
	case OpGT:
		return actual > want, nil
	case OpLT:
		return actual < want, nil
	case OpGTE:
		return actual >= want, nil
	case OpLTE:
		return actual <= want, nil
	case OpEQ:
		return actual == want, nil
	case OpNEQ:
		return actual != want, nil
	default:
		return false, fmt.Errorf("unknown operator %q", n.Operator)
	}
}
