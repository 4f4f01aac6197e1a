package observability

import "context"

// NoOpObserver discards every event. Useful when a caller wants a fully
// silent persistence layer.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
