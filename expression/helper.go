package expression

import (
	"sort"

	engine "github.com/ncobase/screener/validation/expression"
)

// estimateSize estimates the memory held by a cache entry
func estimateSize(key string, c *Compiled) int64 {
	size := int64(len(key))
	if c == nil {
		return size
	}
	size += int64(len(c.Text) + len(c.Canonical))
	for _, f := range c.Fields {
		size += int64(len(f))
	}
	// rough per-node overhead of the tree
	size += int64(countNodes(c.AST)) * 64
	return size
}

func countNodes(node engine.Node) int {
	switch n := node.(type) {
	case *engine.Logical:
		return 1 + countNodes(n.Left) + countNodes(n.Right)
	case *engine.Not:
		return 1 + countNodes(n.Operand)
	case *engine.Comparison:
		return 1
	default:
		return 0
	}
}

// depth returns the nesting depth of a tree; a single comparison has depth 1
func depth(node engine.Node) int {
	switch n := node.(type) {
	case *engine.Logical:
		return 1 + max(depth(n.Left), depth(n.Right))
	case *engine.Not:
		return 1 + depth(n.Operand)
	case *engine.Comparison:
		return 1
	default:
		return 0
	}
}

// fields returns the distinct field names referenced by a tree, sorted
func fields(node engine.Node) []string {
	seen := make(map[string]struct{})
	var walk func(engine.Node)
	walk = func(node engine.Node) {
		switch n := node.(type) {
		case *engine.Comparison:
			seen[n.Field] = struct{}{}
		case *engine.Logical:
			walk(n.Left)
			walk(n.Right)
		case *engine.Not:
			walk(n.Operand)
		}
	}
	walk(node)

	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
