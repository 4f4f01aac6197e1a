// Package reducible defines the contract for self-contained state units: a
// slice of application state owned by a pure reducer over tagged actions,
// plus the surrounding operations a runtime needs to drive the unit (action
// construction, background tasks, derived reads).
//
// Units are plain values. Nothing in this package dispatches actions or owns
// a loop; whoever drives the unit calls Reduce and keeps the returned state.
package reducible

import "context"

// Action is a tagged message handed to a reducer. The tag selects the
// reducer branch and is what persistence triggers match against.
type Action interface {
	ActionType() string
}

// Msg is the basic Action: a type tag plus an optional payload.
type Msg struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// NewMsg builds a Msg with the given tag and payload.
func NewMsg(actionType string, payload any) Msg {
	return Msg{Type: actionType, Payload: payload}
}

func (m Msg) ActionType() string { return m.Type }

// Reducer computes the next state for an action. Reducers must be total:
// they return a state for every input, never panic, and treat unknown
// actions as no-ops by returning the input unchanged.
type Reducer[S any] func(state S, action Action) S

// Task is a long-running background worker owned by a unit. It runs until
// the context is cancelled, feeding actions back through dispatch.
type Task func(ctx context.Context, dispatch func(Action)) error

// Reducible is a self-contained state unit. Decorators wrap this interface
// and must remain substitutable for the unit they wrap.
type Reducible[S any] interface {
	// DefaultState returns the unit's pristine initial state.
	DefaultState() S

	// Reduce computes the next state for an action. Total by contract:
	// no error return, no panics.
	Reduce(state S, action Action) S

	// ActionTypes maps action names to their tags.
	ActionTypes() map[string]string

	// Run constructs the unit's primary action from a payload.
	Run(payload any) Action

	// Tasks returns the unit's background workers.
	Tasks() []Task

	// Select resolves the unit's derived state, e.g. by consulting a live
	// store or recomputing a view.
	Select(ctx context.Context) (S, error)
}
