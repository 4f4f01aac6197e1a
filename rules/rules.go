// Package rules evaluates persistence predicates. A rule sees the action tag
// and the states on either side of a reduction and decides whether the
// result is worth writing to storage, refining the coarse trigger-set gate
// with expression-level conditions ("persist only when the score rose").
//
// Two engines are available: expr (github.com/expr-lang/expr) evaluates
// against native Go values, cel (github.com/google/cel-go) against the
// JSON shape of the states.
package rules

import "fmt"

// Context carries one reduction for a rule to judge.
type Context struct {
	ActionType string
	Prev       any
	Next       any
}

// Rule decides whether a reduction should be persisted.
type Rule interface {
	// Engine identifies the expression engine ("expr", "cel").
	Engine() string
	// Allow reports whether the reduction passes the predicate.
	Allow(rctx Context) (bool, error)
}

// New builds a Rule for the named engine. An empty engine selects expr.
func New(engine, expression string) (Rule, error) {
	switch engine {
	case "", "expr":
		return NewExprRule(expression)
	case "cel":
		return NewCELRule(expression)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engine)
	}
}
