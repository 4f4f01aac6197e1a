package rules

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprRule evaluates an expr-lang predicate. Expressions address native Go
// values: `action` is the tag string, `prev` and `next` are the states as
// handed to the reducer, with exported struct fields reachable by name.
type ExprRule struct {
	expression string
	program    *exprvm.Program
}

var _ Rule = (*ExprRule)(nil)

// NewExprRule compiles expression once up front. Evaluation failures surface
// per call through Allow.
func NewExprRule(expression string) (*ExprRule, error) {
	if expression == "" {
		return nil, &EvaluationError{Engine: "expr", Err: ErrEmptyExpression}
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, &EvaluationError{Engine: "expr", Expr: expression, Err: err}
	}

	return &ExprRule{expression: expression, program: program}, nil
}

func (r *ExprRule) Engine() string { return "expr" }

func (r *ExprRule) Allow(rctx Context) (bool, error) {
	env := map[string]any{
		"action": rctx.ActionType,
		"prev":   rctx.Prev,
		"next":   rctx.Next,
	}

	out, err := exprlang.Run(r.program, env)
	if err != nil {
		return false, &EvaluationError{Engine: "expr", Expr: r.expression, Err: err}
	}

	allowed, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Engine: "expr", Expr: r.expression, Err: ErrNotBoolean}
	}
	return allowed, nil
}
