package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

// observerRegistry is a named set of sinks. Config files reference sinks by
// name, so the registry is the seam between declarative wiring and live
// Observer values.
type observerRegistry struct {
	mu        sync.RWMutex
	observers map[string]Observer
}

func (r *observerRegistry) get(name string) (Observer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obs, exists := r.observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

func (r *observerRegistry) register(name string, observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers[name] = observer
}

func (r *observerRegistry) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.observers, name)
}

// defaultRegistry backs the package-level functions. "noop" and "slog"
// (default logger) are pre-registered so config files can name them without
// any setup.
var defaultRegistry = &observerRegistry{
	observers: map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	},
}

// GetObserver returns a registered observer by name.
func GetObserver(name string) (Observer, error) {
	return defaultRegistry.get(name)
}

// RegisterObserver adds or replaces a named observer.
func RegisterObserver(name string, observer Observer) {
	defaultRegistry.register(name, observer)
}

// RegisterObserverFunc registers a plain function as a named observer.
func RegisterObserverFunc(name string, fn ObserverFunc) {
	defaultRegistry.register(name, fn)
}

// UnregisterObserver removes a named observer. Unknown names are a no-op;
// wrappers already holding the observer keep it.
func UnregisterObserver(name string) {
	defaultRegistry.unregister(name)
}
