// Package observability carries diagnostic events out of the persistence
// pipeline. State units stay silent on their happy path; the decorator and
// the storage backends report restores, saves, and degradations as events to
// an injected Observer instead of writing to any global console. Level values
// align with OpenTelemetry SeverityNumbers so events forward to OTel
// collectors without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is event severity, aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelDebug Level = 5  // OTel DEBUG (5-8), maps to slog.LevelDebug
	LevelInfo  Level = 9  // OTel INFO (9-12), maps to slog.LevelInfo
	LevelWarn  Level = 13 // OTel WARN (13-16), maps to slog.LevelWarn
	LevelError Level = 17 // OTel ERROR (17-20), maps to slog.LevelError
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level for log emission.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names the kind of event. Each package defines its own constants
// using this type (e.g., "persist.save", "storage.file.write").
type EventType string

// Event is a single diagnostic emission. Fields map to OTel LogRecord
// fields: Type→EventName, Level→SeverityNumber, Timestamp→Timestamp,
// Source→InstrumentationScope, Data→Attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Emitters in this module attach a small shared vocabulary of Data keys.
// The accessors below read them so sinks need not hardcode key strings or
// type-assert; a missing or mistyped key reads as the zero value.

// Message returns the human-readable degradation text, if the event
// carries one.
func (e Event) Message() string {
	s, _ := e.Data["message"].(string)
	return s
}

// Cause returns the underlying error text attached to a failure event.
func (e Event) Cause() string {
	s, _ := e.Data["error"].(string)
	return s
}

// StorageKey returns the storage slot the event concerns.
func (e Event) StorageKey() string {
	s, _ := e.Data["storage_key"].(string)
	return s
}

// Bytes returns the serialized payload size attached to restore and save
// events, or 0 when the event carries none.
func (e Event) Bytes() int {
	n, _ := e.Data["bytes"].(int)
	return n
}

// Observer receives events for logging, metrics, or test capture.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}
