package observability

import (
	"context"
	"log/slog"
	"sort"
)

// SlogObserver forwards events to a slog.Logger. The event type becomes the
// log message and the level is mapped via SlogLevel. The source and the
// degradation message lead the attributes, and the remaining Data keys
// follow in sorted order so repeated emissions produce diffable lines.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver returns a SlogObserver emitting to the given logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Data)+2)
	attrs = append(attrs, slog.String("source", event.Source))
	if msg := event.Message(); msg != "" {
		attrs = append(attrs, slog.String("message", msg))
	}

	keys := make([]string, 0, len(event.Data))
	for key := range event.Data {
		if key == "message" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, slog.Any(key, event.Data[key]))
	}

	o.logger.LogAttrs(ctx, event.Level.SlogLevel(), string(event.Type), attrs...)
}
