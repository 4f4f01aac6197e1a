package persist

import "errors"

// ErrMissingKey is returned by New when the configuration names no storage
// key for the unit.
var ErrMissingKey = errors.New("missing storage key")
