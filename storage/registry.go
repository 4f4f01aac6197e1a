package storage

import (
	"fmt"
	"sync"
)

// stores is the global registry of named Store instances. A "memory" store
// is registered by default; applications add durable stores at startup and
// reference them by name from unit configuration.
var (
	stores = map[string]Store{
		"memory": NewMemoryStore(),
	}
	mutex sync.RWMutex
)

// GetStore retrieves a registered Store by name.
func GetStore(name string) (Store, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	store, exists := stores[name]
	if !exists {
		return nil, fmt.Errorf("unknown store: %s", name)
	}
	return store, nil
}

// RegisterStore adds or replaces a named Store in the global registry.
func RegisterStore(name string, store Store) {
	mutex.Lock()
	defer mutex.Unlock()

	stores[name] = store
}

// UnregisterStore removes a named Store from the global registry. Removing
// an unknown name is a no-op; wrappers already holding the store keep it.
func UnregisterStore(name string) {
	mutex.Lock()
	defer mutex.Unlock()

	delete(stores, name)
}

// ListStores returns the names of all registered stores.
func ListStores() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	return names
}
