package observability

import "context"

// MultiObserver fans out events to several sinks, e.g. a slog observer for
// operators plus a metrics observer for dashboards.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver builds a MultiObserver forwarding to every non-nil
// observer in order.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
