// Package persist decorates a reducible with transparent persistence: the
// wrapped unit's state is seeded from a key-value store on first reduction
// and mirrored back after reductions that change it.
//
// The wrapper is substitutable for the unit it wraps. Reducer totality is
// preserved end to end: storage trouble on either side degrades to the
// unit's in-memory behavior with a single warning event per incident, and
// no error ever escapes Reduce.
//
//	unit := reducible.NewUnit(counter{}, reduce)
//	p := persist.Wrap[counter](unit, store, "counter",
//	    persist.WithTriggers[counter]("INC", "RESET"),
//	)
//	state := p.DefaultState()
//	state = p.Reduce(state, reducible.NewMsg("INC", nil))
package persist

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/persistate/persistate/codec"
	"github.com/persistate/persistate/observability"
	"github.com/persistate/persistate/reducible"
	"github.com/persistate/persistate/rules"
	"github.com/persistate/persistate/storage"
)

// Option configures a Reducible created by Wrap.
type Option[S any] func(*Reducible[S])

// WithTransform sets the bidirectional mapping between in-memory and
// persisted state shapes.
func WithTransform[S any](t Transform[S]) Option[S] {
	return func(r *Reducible[S]) { r.transform = t }
}

// WithTriggers restricts persistence to the listed action tags. Calling it
// with no arguments pins the set to empty, so nothing persists; omitting the
// option entirely persists every state-changing action.
func WithTriggers[S any](types ...string) Option[S] {
	return func(r *Reducible[S]) {
		r.hasTriggers = true
		r.triggers = make(map[string]struct{}, len(types))
		for _, t := range types {
			r.triggers[t] = struct{}{}
		}
	}
}

// WithRule adds an expression predicate evaluated after the trigger and
// change checks. Rule errors veto the write and emit a warning.
func WithRule[S any](rule rules.Rule) Option[S] {
	return func(r *Reducible[S]) { r.rule = rule }
}

// WithCodec overrides the default JSON serialization of persisted state.
func WithCodec[S any](c codec.Codec) Option[S] {
	return func(r *Reducible[S]) { r.codec = c }
}

// WithObserver overrides the default SlogObserver receiving persistence
// events.
func WithObserver[S any](o observability.Observer) Option[S] {
	return func(r *Reducible[S]) { r.observer = o }
}

// WithEqual overrides the change check, which defaults to
// reflect.DeepEqual. Useful when states carry fields that never settle
// (timestamps) or when deep comparison is too expensive.
func WithEqual[S any](eq func(a, b S) bool) Option[S] {
	return func(r *Reducible[S]) { r.equal = eq }
}

// Reducible mirrors a wrapped unit's state into a store. It implements
// reducible.Reducible over State[S], delegating every operation to the
// wrapped unit and adding restore/persist behavior around Reduce.
type Reducible[S any] struct {
	child       reducible.Reducible[S]
	store       storage.Store
	key         string
	id          string
	codec       codec.Codec
	observer    observability.Observer
	transform   Transform[S]
	triggers    map[string]struct{}
	hasTriggers bool
	rule        rules.Rule
	equal       func(a, b S) bool
}

var _ reducible.Reducible[State[int]] = (*Reducible[int])(nil)

// Wrap decorates child so its state survives under key in store. A nil
// store or empty key disables persistence entirely; the wrapper still
// manages the state slot and stays substitutable for the child.
func Wrap[S any](child reducible.Reducible[S], store storage.Store, key string, opts ...Option[S]) *Reducible[S] {
	r := &Reducible[S]{
		child:    child,
		store:    store,
		key:      key,
		id:       uuid.NewString(),
		codec:    codec.JSON{},
		observer: observability.NewSlogObserver(slog.Default()),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Key returns the storage key the wrapper persists under.
func (r *Reducible[S]) Key() string {
	return r.key
}

// DefaultState returns the child's default in a pristine slot. The slot
// seeds itself from storage on its first reduction.
func (r *Reducible[S]) DefaultState() State[S] {
	return State[S]{Value: r.child.DefaultState(), pristine: true}
}

// Reduce runs one reduction with persistence around it. A pristine slot is
// first resolved against storage; the child then reduces normally, and the
// result is written back when it changed and the trigger set and rule allow.
// The returned slot is always initialized.
func (r *Reducible[S]) Reduce(slot State[S], action reducible.Action) State[S] {
	working := slot.Value
	if slot.pristine {
		working = r.restore(working)
	}

	next := r.child.Reduce(working, action)

	if r.shouldPersist(working, next, action) {
		r.persist(next, action)
	}

	return State[S]{Value: next}
}

func (r *Reducible[S]) ActionTypes() map[string]string {
	return r.child.ActionTypes()
}

func (r *Reducible[S]) Run(payload any) reducible.Action {
	return r.child.Run(payload)
}

func (r *Reducible[S]) Tasks() []reducible.Task {
	return r.child.Tasks()
}

// Select delegates to the child and wraps the result in an initialized
// slot: derived reads never re-arm storage seeding.
func (r *Reducible[S]) Select(ctx context.Context) (State[S], error) {
	value, err := r.child.Select(ctx)
	if err != nil {
		return State[S]{}, err
	}
	return State[S]{Value: value}, nil
}

// restore resolves the initial state: the stored snapshot when one decodes
// cleanly, otherwise the given default. Read problems warn once and fall
// back; an absent key falls back silently.
func (r *Reducible[S]) restore(fallback S) S {
	if r.store == nil || r.key == "" {
		return fallback
	}

	ctx := context.Background()

	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.warnUnmarshal(ctx, err)
		return fallback
	}
	if !ok {
		r.emit(ctx, EventRestoreFallback, observability.LevelDebug, map[string]any{
			"reason": "absent",
		})
		return fallback
	}

	value, err := r.decode(data)
	if err != nil {
		r.warnUnmarshal(ctx, err)
		return fallback
	}

	r.emit(ctx, EventRestore, observability.LevelDebug, map[string]any{
		"bytes": len(data),
	})
	return value
}

func (r *Reducible[S]) decode(data []byte) (S, error) {
	if r.transform.Read != nil {
		var persisted any
		if err := r.codec.Unmarshal(data, &persisted); err != nil {
			var zero S
			return zero, err
		}
		return r.transform.Read(persisted)
	}

	var value S
	if err := r.codec.Unmarshal(data, &value); err != nil {
		var zero S
		return zero, err
	}
	return value, nil
}

func (r *Reducible[S]) shouldPersist(prev, next S, action reducible.Action) bool {
	if r.store == nil || r.key == "" {
		return false
	}

	if r.hasTriggers {
		if _, ok := r.triggers[action.ActionType()]; !ok {
			return false
		}
	}

	if !r.changed(prev, next) {
		return false
	}

	if r.rule != nil {
		allowed, err := r.rule.Allow(rules.Context{
			ActionType: action.ActionType(),
			Prev:       prev,
			Next:       next,
		})
		if err != nil {
			r.emit(context.Background(), EventRuleFailure, observability.LevelWarn, map[string]any{
				"error": err.Error(),
			})
			return false
		}
		if !allowed {
			return false
		}
	}

	return true
}

func (r *Reducible[S]) changed(prev, next S) bool {
	if r.equal != nil {
		return !r.equal(prev, next)
	}
	return !reflect.DeepEqual(prev, next)
}

// persist writes next to storage. Failures warn once and are swallowed; the
// reduction result stands regardless of storage health.
func (r *Reducible[S]) persist(next S, action reducible.Action) {
	ctx := context.Background()

	value := any(next)
	if r.transform.Write != nil {
		transformed, err := r.transform.Write(next)
		if err != nil {
			r.warnMarshal(ctx, err)
			return
		}
		value = transformed
	}

	data, err := r.codec.Marshal(value)
	if err != nil {
		r.warnMarshal(ctx, err)
		return
	}

	if err := r.store.Set(ctx, r.key, data); err != nil {
		r.warnMarshal(ctx, err)
		return
	}

	r.emit(ctx, EventSave, observability.LevelDebug, map[string]any{
		"action": action.ActionType(),
		"bytes":  len(data),
	})
}

func (r *Reducible[S]) warnUnmarshal(ctx context.Context, cause error) {
	r.emit(ctx, EventUnmarshalFailure, observability.LevelWarn, map[string]any{
		"message": msgUnmarshal,
		"error":   cause.Error(),
	})
}

func (r *Reducible[S]) warnMarshal(ctx context.Context, cause error) {
	r.emit(ctx, EventMarshalFailure, observability.LevelWarn, map[string]any{
		"message": msgMarshal,
		"error":   cause.Error(),
	})
}

func (r *Reducible[S]) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	data["storage_key"] = r.key
	data["id"] = r.id

	r.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "persist.Reduce",
		Data:      data,
	})
}
