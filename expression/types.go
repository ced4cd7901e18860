package expression

import (
	"fmt"
	"time"

	engine "github.com/ncobase/screener/validation/expression"
)

// Compiled is a parsed and validated formula ready for evaluation
type Compiled struct {
	Text      string      // Source text as submitted
	Canonical string      // Canonical form
	AST       engine.Node // Parsed tree
	Fields    []string    // Distinct fields referenced, sorted
	Depth     int         // Nesting depth of the tree
}

// Config represents compiler configuration
type Config struct {
	MaxDepth     int
	MaxLength    int
	CacheEnabled bool
	CacheSize    int64
	CacheTTL     time.Duration
}

// DefaultConfig returns default compiler configuration
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:     64,
		MaxLength:    4096,
		CacheEnabled: true,
		CacheSize:    1024 * 1024, // 1MB
		CacheTTL:     time.Hour,
	}
}

// LimitError is returned when a formula exceeds a compiler limit
type LimitError struct {
	Limit  string // length, depth
	Actual int
	Max    int
}

// Error returns the error message
func (e *LimitError) Error() string {
	return fmt.Sprintf("formula %s %d exceeds maximum %d", e.Limit, e.Actual, e.Max)
}
