package persist

import "github.com/persistate/persistate/observability"

// Persistence event types emitted around the reduce path. The two failure
// events carry the degradation warnings; restores, fallbacks, and saves are
// debug-level breadcrumbs.
const (
	EventRestore          observability.EventType = "persist.restore"
	EventRestoreFallback  observability.EventType = "persist.restore.fallback"
	EventSave             observability.EventType = "persist.save"
	EventUnmarshalFailure observability.EventType = "persist.unmarshal.failure"
	EventMarshalFailure   observability.EventType = "persist.marshal.failure"
	EventRuleFailure      observability.EventType = "persist.rule.failure"
)

// Warning messages carried by the failure events. Read-side problems
// (storage errors, undecodable bytes, transform failures) warn with
// msgUnmarshal; write-side problems (transform, encoding, storage writes)
// warn with msgMarshal.
const (
	msgUnmarshal = "Could not unmarshal state from storage"
	msgMarshal   = "Could not marshal state to storage"
)
