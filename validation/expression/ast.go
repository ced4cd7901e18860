package expression

import "strconv"

// CompareOp is a comparison operator
type CompareOp string

const (
	OpGT  CompareOp = ">"
	OpLT  CompareOp = "<"
	OpGTE CompareOp = ">="
	OpLTE CompareOp = "<="
	OpEQ  CompareOp = "=="
	OpNEQ CompareOp = "!="
)

// ComparisonOperators lists every comparison operator in canonical order
var ComparisonOperators = []CompareOp{OpGT, OpLT, OpGTE, OpLTE, OpEQ, OpNEQ}

// IsValid reports whether op is a known comparison operator
func (op CompareOp) IsValid() bool {
	switch op {
	case OpGT, OpLT, OpGTE, OpLTE, OpEQ, OpNEQ:
		return true
	}
	return false
}

// IsEquality reports whether op is == or !=
func (op CompareOp) IsEquality() bool {
	return op == OpEQ || op == OpNEQ
}

// LogicalOp is a binary logical operator
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Node is an AST node. The set of implementations is closed:
// *Comparison, *Logical and *Not.
type Node interface {
	node()
}

// Value is the literal operand of a comparison, either a number or a string.
type Value struct {
	str      string
	num      float64
	isString bool
}

// NumberValue returns a numeric literal
func NumberValue(n float64) Value { return Value{num: n} }

// StringValue returns a string literal
func StringValue(s string) Value { return Value{str: s, isString: true} }

// IsNumber reports whether the value is numeric
func (v Value) IsNumber() bool { return !v.isString }

// IsString reports whether the value is a string
func (v Value) IsString() bool { return v.isString }

// Number returns the numeric literal; zero for strings
func (v Value) Number() float64 { return v.num }

// Text returns the string literal; empty for numbers
func (v Value) Text() string { return v.str }

// Interface returns the literal as float64 or string
func (v Value) Interface() any {
	if v.isString {
		return v.str
	}
	return v.num
}

// String renders the literal in canonical form
func (v Value) String() string {
	if v.isString {
		return quote(v.str)
	}
	return formatNumber(v.num)
}

// Comparison is the leaf predicate `field operator value`
type Comparison struct {
	Field    string
	Operator CompareOp
	Value    Value
}

// Logical joins two sub-expressions with AND or OR
type Logical struct {
	Operator LogicalOp
	Left     Node
	Right    Node
}

// Not negates its operand
type Not struct {
	Operand Node
}

func (*Comparison) node() {}
func (*Logical) node()    {}
func (*Not) node()        {}

// String returns the canonical form
func (n *Comparison) String() string { return Serialize(n) }

// String returns the canonical form
func (n *Logical) String() string { return Serialize(n) }

// String returns the canonical form
func (n *Not) String() string { return Serialize(n) }

// formatNumber renders a float with its shortest exact decimal representation,
// always carrying a decimal point so the text re-lexes to the same value.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'N', 'I':
			return s
		}
	}
	return s + ".0"
}

// quote wraps a string literal in single quotes, falling back to double quotes
// when the literal itself contains a single quote.
func quote(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			return `"` + s + `"`
		}
	}
	return "'" + s + "'"
}
