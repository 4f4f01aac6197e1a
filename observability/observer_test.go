package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/persistate/persistate/observability"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  string
	}{
		{name: "trace range", level: 1, want: "TRACE"},
		{name: "debug maps to DEBUG", level: observability.LevelDebug, want: "DEBUG"},
		{name: "info maps to INFO", level: observability.LevelInfo, want: "INFO"},
		{name: "warn maps to WARN", level: observability.LevelWarn, want: "WARN"},
		{name: "error maps to ERROR", level: observability.LevelError, want: "ERROR"},
		{name: "fatal range", level: 21, want: "FATAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  slog.Level
	}{
		{name: "debug maps to Debug", level: observability.LevelDebug, want: slog.LevelDebug},
		{name: "info maps to Info", level: observability.LevelInfo, want: slog.LevelInfo},
		{name: "warn maps to Warn", level: observability.LevelWarn, want: slog.LevelWarn},
		{name: "error maps to Error", level: observability.LevelError, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.SlogLevel(); got != tt.want {
				t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_OTelAlignment(t *testing.T) {
	if observability.LevelDebug != 5 {
		t.Errorf("LevelDebug = %d, want 5 (OTel DEBUG range)", observability.LevelDebug)
	}
	if observability.LevelInfo != 9 {
		t.Errorf("LevelInfo = %d, want 9 (OTel INFO range)", observability.LevelInfo)
	}
	if observability.LevelWarn != 13 {
		t.Errorf("LevelWarn = %d, want 13 (OTel WARN range)", observability.LevelWarn)
	}
	if observability.LevelError != 17 {
		t.Errorf("LevelError = %d, want 17 (OTel ERROR range)", observability.LevelError)
	}
}

func TestNoOpObserver(t *testing.T) {
	obs := observability.NoOpObserver{}
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "test",
		Data:      map[string]any{"key": "value"},
	})
}

func TestObserverFunc(t *testing.T) {
	var got []observability.Event
	obs := observability.ObserverFunc(func(ctx context.Context, event observability.Event) {
		got = append(got, event)
	})

	obs.OnEvent(context.Background(), observability.Event{
		Type:  "persist.restore",
		Level: observability.LevelDebug,
	})

	if len(got) != 1 {
		t.Fatalf("received %d events, want 1", len(got))
	}
	if got[0].Type != "persist.restore" {
		t.Errorf("event type = %q, want %q", got[0].Type, "persist.restore")
	}
}

func TestEvent_DataAccessors(t *testing.T) {
	event := observability.Event{
		Type:  "persist.marshal.failure",
		Level: observability.LevelWarn,
		Data: map[string]any{
			"message":     "Could not marshal state to storage",
			"error":       "disk full",
			"storage_key": "rlswt",
			"bytes":       42,
		},
	}

	if got := event.Message(); got != "Could not marshal state to storage" {
		t.Errorf("Message() = %q, want the degradation text", got)
	}
	if got := event.Cause(); got != "disk full" {
		t.Errorf("Cause() = %q, want %q", got, "disk full")
	}
	if got := event.StorageKey(); got != "rlswt" {
		t.Errorf("StorageKey() = %q, want %q", got, "rlswt")
	}
	if got := event.Bytes(); got != 42 {
		t.Errorf("Bytes() = %d, want 42", got)
	}
}

func TestEvent_DataAccessorsZeroValues(t *testing.T) {
	// Absent keys and mistyped values both read as zero.
	event := observability.Event{
		Type: "persist.save",
		Data: map[string]any{"bytes": "not a count"},
	}

	if got := event.Message(); got != "" {
		t.Errorf("Message() = %q, want empty", got)
	}
	if got := event.Cause(); got != "" {
		t.Errorf("Cause() = %q, want empty", got)
	}
	if got := event.StorageKey(); got != "" {
		t.Errorf("StorageKey() = %q, want empty", got)
	}
	if got := event.Bytes(); got != 0 {
		t.Errorf("Bytes() = %d, want 0", got)
	}

	var empty observability.Event
	if empty.Message() != "" || empty.Bytes() != 0 {
		t.Error("zero-value event should read as all-zero data")
	}
}

func TestMultiObserver(t *testing.T) {
	var events1, events2 []observability.Event

	obs1 := &captureObserver{events: &events1}
	obs2 := &captureObserver{events: &events2}

	multi := observability.NewMultiObserver(obs1, obs2)

	event := observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "test",
		Data:      map[string]any{"key": "value"},
	}

	multi.OnEvent(context.Background(), event)

	if len(events1) != 1 {
		t.Errorf("observer 1 received %d events, want 1", len(events1))
	}
	if len(events2) != 1 {
		t.Errorf("observer 2 received %d events, want 1", len(events2))
	}
	if events1[0].Type != "persist.save" {
		t.Errorf("observer 1 event type = %q, want %q", events1[0].Type, "persist.save")
	}
}

func TestMultiObserver_NilFiltering(t *testing.T) {
	var events []observability.Event
	obs := &captureObserver{events: &events}

	multi := observability.NewMultiObserver(nil, obs, nil)

	multi.OnEvent(context.Background(), observability.Event{
		Type:  "persist.save",
		Level: observability.LevelInfo,
	})

	if len(events) != 1 {
		t.Errorf("received %d events, want 1 (nil observers should be filtered)", len(events))
	}
}

func TestSlogObserver_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     observability.Level
		minLevel  slog.Level
		expectLog bool
	}{
		{name: "debug at debug handler", level: observability.LevelDebug, minLevel: slog.LevelDebug, expectLog: true},
		{name: "debug at info handler", level: observability.LevelDebug, minLevel: slog.LevelInfo, expectLog: false},
		{name: "info at info handler", level: observability.LevelInfo, minLevel: slog.LevelInfo, expectLog: true},
		{name: "info at warn handler", level: observability.LevelInfo, minLevel: slog.LevelWarn, expectLog: false},
		{name: "warn at warn handler", level: observability.LevelWarn, minLevel: slog.LevelWarn, expectLog: true},
		{name: "error at error handler", level: observability.LevelError, minLevel: slog.LevelError, expectLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level: tt.minLevel,
			}))

			obs := observability.NewSlogObserver(logger)
			obs.OnEvent(context.Background(), observability.Event{
				Type:      "persist.save",
				Level:     tt.level,
				Timestamp: time.Now(),
				Source:    "test",
			})

			hasOutput := buf.Len() > 0
			if hasOutput != tt.expectLog {
				t.Errorf("log output = %v, want %v (buf: %q)", hasOutput, tt.expectLog, buf.String())
			}
		})
	}
}

func TestSlogObserver_EventTypeAsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "persist.unmarshal.failure",
		Level:     observability.LevelWarn,
		Timestamp: time.Now(),
		Source:    "persist.Reduce",
		Data: map[string]any{
			"storage_key": "rlswt",
		},
	})

	output := buf.String()
	if !strings.Contains(output, "persist.unmarshal.failure") {
		t.Errorf("expected event type as log message, got: %s", output)
	}
	if !strings.Contains(output, "source=persist.Reduce") {
		t.Errorf("expected source attribute, got: %s", output)
	}
	if !strings.Contains(output, "storage_key=rlswt") {
		t.Errorf("expected data attributes, got: %s", output)
	}
}

func TestSlogObserver_AttributeOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "persist.marshal.failure",
		Level:     observability.LevelWarn,
		Timestamp: time.Now(),
		Source:    "persist.Reduce",
		Data: map[string]any{
			"storage_key": "rlswt",
			"message":     "Could not marshal state to storage",
			"error":       "disk full",
		},
	})

	output := buf.String()
	message := strings.Index(output, "message=")
	cause := strings.Index(output, "error=")
	key := strings.Index(output, "storage_key=")
	if message < 0 || cause < 0 || key < 0 {
		t.Fatalf("missing attributes in output: %s", output)
	}
	// Message leads, then the remaining keys in sorted order.
	if !(message < cause && cause < key) {
		t.Errorf("attribute order = message@%d error@%d storage_key@%d, want message first then sorted: %s",
			message, cause, key, output)
	}
}

func TestRegistry_GetObserver(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "noop exists", key: "noop", wantErr: false},
		{name: "slog exists", key: "slog", wantErr: false},
		{name: "unknown fails", key: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := observability.GetObserver(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetObserver(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if !tt.wantErr && obs == nil {
				t.Errorf("GetObserver(%q) returned nil observer", tt.key)
			}
		})
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	var events []observability.Event
	custom := &captureObserver{events: &events}

	observability.RegisterObserver("test-custom", custom)

	obs, err := observability.GetObserver("test-custom")
	if err != nil {
		t.Fatalf("GetObserver failed: %v", err)
	}

	obs.OnEvent(context.Background(), observability.Event{
		Type:  "persist.save",
		Level: observability.LevelInfo,
	})

	if len(events) != 1 {
		t.Errorf("received %d events, want 1", len(events))
	}
}

func TestRegistry_RegisterObserverFunc(t *testing.T) {
	var events []observability.Event
	observability.RegisterObserverFunc("test-func", func(ctx context.Context, event observability.Event) {
		events = append(events, event)
	})

	obs, err := observability.GetObserver("test-func")
	if err != nil {
		t.Fatalf("GetObserver failed: %v", err)
	}

	obs.OnEvent(context.Background(), observability.Event{
		Type:  "persist.restore",
		Level: observability.LevelDebug,
	})

	if len(events) != 1 {
		t.Fatalf("received %d events, want 1", len(events))
	}
	if events[0].Type != "persist.restore" {
		t.Errorf("event type = %q, want %q", events[0].Type, "persist.restore")
	}
}

func TestRegistry_UnregisterObserver(t *testing.T) {
	observability.RegisterObserver("test-transient", observability.NoOpObserver{})
	if _, err := observability.GetObserver("test-transient"); err != nil {
		t.Fatalf("GetObserver after register failed: %v", err)
	}

	observability.UnregisterObserver("test-transient")

	if _, err := observability.GetObserver("test-transient"); err == nil {
		t.Error("GetObserver succeeded after UnregisterObserver, want error")
	}

	// Unknown names unregister without complaint.
	observability.UnregisterObserver("never-registered")
}

type captureObserver struct {
	events *[]observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	*c.events = append(*c.events, event)
}
