package expression

import (
	"fmt"
	"sort"
	"sync"
)

// FieldType is the value type of a screening field
type FieldType int

const (
	FieldNumeric FieldType = iota + 1
	FieldString
)

// String returns the field type name
func (t FieldType) String() string {
	switch t {
	case FieldNumeric:
		return "numeric"
	case FieldString:
		return "string"
	default:
		return "unknown"
	}
}

// Default field sets of a convertible bond record.
var (
	NumericFields = []string{
		"price", "premium_rate", "ytm", "remaining_years",
		"stock_price", "conversion_price", "conversion_value", "double_low",
	}
	StringFields = []string{
		"code", "name", "stock_code", "stock_name", "credit_rating",
	}
)

// Registry is an immutable set of recognized field names, partitioned into
// numeric and string fields. It is safe for concurrent use.
type Registry struct {
	fields  map[string]FieldType
	numeric []string
	str     []string
}

// NewRegistry builds a registry. Names must be unique across both sets.
func NewRegistry(numeric, str []string) (*Registry, error) {
	r := &Registry{
		fields: make(map[string]FieldType, len(numeric)+len(str)),
	}
	for _, name := range numeric {
		if _, exists := r.fields[name]; exists {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		r.fields[name] = FieldNumeric
		r.numeric = append(r.numeric, name)
	}
	for _, name := range str {
		if _, exists := r.fields[name]; exists {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		r.fields[name] = FieldString
		r.str = append(r.str, name)
	}
	sort.Strings(r.numeric)
	sort.Strings(r.str)
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error
func MustRegistry(numeric, str []string) *Registry {
	r, err := NewRegistry(numeric, str)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustRegistry(NumericFields, StringFields)
})

// DefaultRegistry returns the process-wide bond field registry.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Lookup returns the type of a field
func (r *Registry) Lookup(name string) (FieldType, bool) {
	t, ok := r.fields[name]
	return t, ok
}

// Has reports whether the field is recognized
func (r *Registry) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// IsNumeric reports whether the field is a numeric field
func (r *Registry) IsNumeric(name string) bool {
	return r.fields[name] == FieldNumeric
}

// IsString reports whether the field is a string field
func (r *Registry) IsString(name string) bool {
	return r.fields[name] == FieldString
}

// Numeric returns a sorted copy of the numeric field names
func (r *Registry) Numeric() []string {
	return append([]string(nil), r.numeric...)
}

// Strings returns a sorted copy of the string field names
func (r *Registry) Strings() []string {
	return append([]string(nil), r.str...)
}

// Names returns every recognized field name, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fields))
	names = append(names, r.numeric...)
	names = append(names, r.str...)
	sort.Strings(names)
	return names
}
