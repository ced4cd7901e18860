package expression

import "strings"

// Serialize renders an AST in canonical form.
//
// A Logical child is parenthesized only when its operator differs from the
// parent's; a NOT operand is parenthesized when it is Logical or Not.
// Serialize(ParseFormula(Serialize(n))) == Serialize(n) for any parsed n.
func Serialize(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Comparison:
		b.WriteString(n.Field)
		b.WriteByte(' ')
		b.WriteString(string(n.Operator))
		b.WriteByte(' ')
		b.WriteString(n.Value.String())

	case *Logical:
		writeOperand(b, n.Left, needsGroup(n.Operator, n.Left))
		b.WriteByte(' ')
		b.WriteString(string(n.Operator))
		b.WriteByte(' ')
		writeOperand(b, n.Right, needsGroup(n.Operator, n.Right))

	case *Not:
		b.WriteString("NOT ")
		switch n.Operand.(type) {
		case *Logical, *Not:
			writeOperand(b, n.Operand, true)
		default:
			writeOperand(b, n.Operand, false)
		}
	}
}

func writeOperand(b *strings.Builder, node Node, group bool) {
	if group {
		b.WriteByte('(')
		writeNode(b, node)
		b.WriteByte(')')
		return
	}
	writeNode(b, node)
}

// needsGroup reports whether child must be parenthesized under a parent operator
func needsGroup(parent LogicalOp, child Node) bool {
	l, ok := child.(*Logical)
	return ok && l.Operator != parent
}
