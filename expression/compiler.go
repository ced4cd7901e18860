// Package expression compiles screening formulas into reusable trees and
// caches them by source text.
package expression

import (
	"unicode/utf8"

	engine "github.com/ncobase/screener/validation/expression"
)

// Compiler parses, validates and caches formulas
type Compiler struct {
	engine *engine.Engine
	config *Config
	cache  *Cache
}

// NewCompiler creates a compiler. Nil arguments select defaults.
func NewCompiler(eng *engine.Engine, config *Config) *Compiler {
	if eng == nil {
		eng = engine.Default()
	}
	if config == nil {
		config = DefaultConfig()
	}

	c := &Compiler{engine: eng, config: config}
	if config.CacheEnabled {
		c.cache = NewCache(&CacheConfig{
			MaxSize:         config.CacheSize,
			TTL:             config.CacheTTL,
			CleanupInterval: config.CacheTTL,
		})
	}
	return c
}

// Engine returns the underlying formula engine
func (c *Compiler) Engine() *engine.Engine {
	return c.engine
}

// Compile returns the compiled form of text. Syntax errors are returned as
// *engine.LexError or *engine.ParseError, semantic ones as
// *engine.ValidationError.
func (c *Compiler) Compile(text string) (*Compiled, error) {
	if c.cache != nil {
		if compiled, ok := c.cache.Get(text); ok {
			return compiled, nil
		}
	}

	if n := utf8.RuneCountInString(text); c.config.MaxLength > 0 && n > c.config.MaxLength {
		return nil, &LimitError{Limit: "length", Actual: n, Max: c.config.MaxLength}
	}

	node, err := c.engine.ParseFormula(text)
	if err != nil {
		return nil, err
	}
	if err := c.engine.Validate(node).Err(); err != nil {
		return nil, err
	}

	d := depth(node)
	if c.config.MaxDepth > 0 && d > c.config.MaxDepth {
		return nil, &LimitError{Limit: "depth", Actual: d, Max: c.config.MaxDepth}
	}

	compiled := &Compiled{
		Text:      text,
		Canonical: engine.Serialize(node),
		AST:       node,
		Fields:    fields(node),
		Depth:     d,
	}

	if c.cache != nil {
		// an entry too large to cache is still usable
		_ = c.cache.Set(text, compiled)
	}
	return compiled, nil
}

// Match evaluates a compiled formula against a record
func (c *Compiler) Match(compiled *Compiled, rec engine.Record) (bool, error) {
	return engine.Evaluate(compiled.AST, rec)
}

// Stats returns cache statistics; zero when caching is disabled
func (c *Compiler) Stats() CacheStats {
	if c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}

// Close releases background resources
func (c *Compiler) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
