package rules

import (
	"encoding/json"

	celgo "github.com/google/cel-go/cel"
)

// CELRule evaluates a CEL predicate. State values are normalized through
// their JSON form before activation, so expressions address fields by their
// serialized names: `next.count > prev.count`.
type CELRule struct {
	expression string
	program    celgo.Program
}

var _ Rule = (*CELRule)(nil)

// NewCELRule parses, checks, and plans expression once up front.
func NewCELRule(expression string) (*CELRule, error) {
	if expression == "" {
		return nil, &EvaluationError{Engine: "cel", Err: ErrEmptyExpression}
	}

	env, err := celgo.NewEnv(
		celgo.Variable("action", celgo.StringType),
		celgo.Variable("prev", celgo.DynType),
		celgo.Variable("next", celgo.DynType),
	)
	if err != nil {
		return nil, &EvaluationError{Engine: "cel", Expr: expression, Err: err}
	}

	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, &EvaluationError{Engine: "cel", Expr: expression, Err: issues.Err()}
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, &EvaluationError{Engine: "cel", Expr: expression, Err: issues.Err()}
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, &EvaluationError{Engine: "cel", Expr: expression, Err: err}
	}

	return &CELRule{expression: expression, program: program}, nil
}

func (r *CELRule) Engine() string { return "cel" }

func (r *CELRule) Allow(rctx Context) (bool, error) {
	prev, err := normalize(rctx.Prev)
	if err != nil {
		return false, &EvaluationError{Engine: "cel", Expr: r.expression, Err: err}
	}
	next, err := normalize(rctx.Next)
	if err != nil {
		return false, &EvaluationError{Engine: "cel", Expr: r.expression, Err: err}
	}

	out, _, err := r.program.Eval(map[string]any{
		"action": rctx.ActionType,
		"prev":   prev,
		"next":   next,
	})
	if err != nil {
		return false, &EvaluationError{Engine: "cel", Expr: r.expression, Err: err}
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, &EvaluationError{Engine: "cel", Expr: r.expression, Err: ErrNotBoolean}
	}
	return allowed, nil
}

// normalize rewrites a state value into its JSON shape (maps, slices,
// float64, string, bool, nil) for CEL activation.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
