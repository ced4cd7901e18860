package expression

import "fmt"

// Result is the outcome of one validation pass
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Err returns nil for a valid result, otherwise a *ValidationError
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: append([]string(nil), r.Errors...)}
}

// validator walks an AST and collects every violation against a registry
type validator struct {
	registry *Registry
	errors   []string
}

func (v *validator) addf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) walk(node Node) {
	switch n := node.(type) {
	case *Comparison:
		v.checkComparison(n)
	case *Logical:
		v.walk(n.Left)
		v.walk(n.Right)
	case *Not:
		v.walk(n.Operand)
	case nil:
		v.addf("Missing expression")
	default:
		v.addf("Unknown node type: %T", node)
	}
}

func (v *validator) checkComparison(n *Comparison) {
	fieldType, ok := v.registry.Lookup(n.Field)
	if !ok {
		v.addf("Unknown field: %s", n.Field)
		return
	}

	switch fieldType {
	case FieldNumeric:
		if !n.Value.IsNumber() {
			v.addf("Field '%s' requires numeric value, got string", n.Field)
		}
		if !n.Operator.IsValid() {
			v.addf("Invalid operator '%s' for numeric field", n.Operator)
		}
	case FieldString:
		if !n.Value.IsString() {
			v.addf("Field '%s' requires string value, got number", n.Field)
		}
		if !n.Operator.IsEquality() {
			v.addf("String field '%s' only supports == and != operators", n.Field)
		}
	}
}
