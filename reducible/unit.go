package reducible

import "context"

// Unit is a function-backed Reducible assembled from a default state and a
// reducer. The remaining operations come from options; their zero-value
// behaviors are documented on each option.
type Unit[S any] struct {
	defaultState S
	reducer      Reducer[S]
	actionTypes  map[string]string
	run          func(payload any) Action
	tasks        []Task
	sel          func(ctx context.Context) (S, error)
}

var _ Reducible[int] = (*Unit[int])(nil)

// UnitOption configures a Unit created by NewUnit.
type UnitOption[S any] func(*Unit[S])

// WithActionTypes sets the unit's action tag map (name → tag). Without it,
// ActionTypes returns an empty map.
func WithActionTypes[S any](types map[string]string) UnitOption[S] {
	return func(u *Unit[S]) { u.actionTypes = types }
}

// WithRun sets the unit's action constructor. Without it, Run wraps the
// payload in a Msg with an empty tag, which total reducers ignore.
func WithRun[S any](run func(payload any) Action) UnitOption[S] {
	return func(u *Unit[S]) { u.run = run }
}

// WithTasks sets the unit's background workers.
func WithTasks[S any](tasks ...Task) UnitOption[S] {
	return func(u *Unit[S]) { u.tasks = tasks }
}

// WithSelect sets the unit's derived-state read. Without it, Select returns
// the default state.
func WithSelect[S any](sel func(ctx context.Context) (S, error)) UnitOption[S] {
	return func(u *Unit[S]) { u.sel = sel }
}

// NewUnit builds a Unit from a default state and a reducer. The reducer must
// be total; a nil reducer means every action is a no-op.
func NewUnit[S any](defaultState S, reducer Reducer[S], opts ...UnitOption[S]) *Unit[S] {
	u := &Unit[S]{
		defaultState: defaultState,
		reducer:      reducer,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

func (u *Unit[S]) DefaultState() S {
	return u.defaultState
}

func (u *Unit[S]) Reduce(state S, action Action) S {
	if u.reducer == nil {
		return state
	}
	return u.reducer(state, action)
}

// ActionTypes returns a copy of the tag map so callers cannot mutate the
// unit's own copy.
func (u *Unit[S]) ActionTypes() map[string]string {
	types := make(map[string]string, len(u.actionTypes))
	for name, tag := range u.actionTypes {
		types[name] = tag
	}
	return types
}

func (u *Unit[S]) Run(payload any) Action {
	if u.run == nil {
		return Msg{Payload: payload}
	}
	return u.run(payload)
}

func (u *Unit[S]) Tasks() []Task {
	return u.tasks
}

func (u *Unit[S]) Select(ctx context.Context) (S, error) {
	if u.sel == nil {
		return u.defaultState, nil
	}
	return u.sel(ctx)
}
