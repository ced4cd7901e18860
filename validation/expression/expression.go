// Package expression implements the formula language used to screen
// convertible bonds: a lexer, a recursive descent parser, a semantic
// validator against a field registry, a canonicalizing serializer and an
// evaluator over bond records.
package expression

import "sync"

// Engine binds the formula pipeline to a field registry.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// New creates an engine over the given registry. A nil registry selects
// the default bond field registry.
func New(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Registry returns the engine's field registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Tokenize splits text into tokens terminated by TokenEOF.
// Identifiers that are not keywords must be registered fields.
func (e *Engine) Tokenize(text string) ([]Token, error) {
	l := &lexer{input: []rune(text), registry: e.registry, strict: true}
	return l.tokenize()
}

// Parse builds an AST from a token stream
func (e *Engine) Parse(tokens []Token) (Node, error) {
	p := &parser{tokens: tokens}
	return p.parse()
}

// ParseFormula tokenizes and parses text
func (e *Engine) ParseFormula(text string) (Node, error) {
	tokens, err := e.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return e.Parse(tokens)
}

// Validate checks every comparison of the tree against the registry
// and reports all violations.
func (e *Engine) Validate(node Node) *Result {
	v := &validator{registry: e.registry}
	v.walk(node)
	return &Result{Valid: len(v.errors) == 0, Errors: v.errors}
}

// Verdict is the outcome of validating formula text.
// Position is set only for lex and parse failures, Errors only for
// semantic ones.
type Verdict struct {
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	Position *int     `json:"position,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// ValidateFormula parses and validates text in one step.
//
// When text parses, unregistered identifiers are reported as semantic
// violations alongside any others, without a position. When it does not,
// the verdict carries the same error as ParseFormula.
func (e *Engine) ValidateFormula(text string) Verdict {
	l := &lexer{input: []rune(text), registry: e.registry}
	tokens, err := l.tokenize()
	if err == nil {
		var node Node
		if node, err = e.Parse(tokens); err == nil {
			if res := e.Validate(node); !res.Valid {
				return Verdict{Error: res.Err().Error(), Errors: append([]string(nil), res.Errors...)}
			}
			return Verdict{Valid: true}
		}
	}
	if _, strictErr := e.ParseFormula(text); strictErr != nil {
		err = strictErr
	}
	return failedVerdict(err)
}

func failedVerdict(err error) Verdict {
	v := Verdict{Error: ErrorMessage(err)}
	if pos, ok := ErrorPosition(err); ok {
		v.Position = &pos
	}
	return v
}

// Normalize returns the canonical form of text
func (e *Engine) Normalize(text string) (string, error) {
	node, err := e.ParseFormula(text)
	if err != nil {
		return "", err
	}
	return Serialize(node), nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(DefaultRegistry())
})

// Default returns the engine over the default registry
func Default() *Engine {
	return defaultEngine()
}

// Tokenize splits text using the default registry
func Tokenize(text string) ([]Token, error) {
	return Default().Tokenize(text)
}

// Parse builds an AST from tokens
func Parse(tokens []Token) (Node, error) {
	return Default().Parse(tokens)
}

// ParseFormula parses text using the default registry
func ParseFormula(text string) (Node, error) {
	return Default().ParseFormula(text)
}

// Validate validates an AST against the default registry
func Validate(node Node) *Result {
	return Default().Validate(node)
}

// ValidateFormula validates text against the default registry
func ValidateFormula(text string) Verdict {
	return Default().ValidateFormula(text)
}

// NormalizeFormula returns the canonical form of text
func NormalizeFormula(text string) (string, error) {
	return Default().Normalize(text)
}
