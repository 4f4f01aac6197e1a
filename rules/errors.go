package rules

import (
	"errors"
	"fmt"
)

// Sentinel errors for rule construction and evaluation.
var (
	ErrEmptyExpression = errors.New("expression must not be empty")
	ErrUnknownEngine   = errors.New("unknown rule engine")
	ErrNotBoolean      = errors.New("expression did not produce a boolean")
)

// EvaluationError captures engine metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rules: %s engine %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}
