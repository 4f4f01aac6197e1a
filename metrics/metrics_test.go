package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/persistate/persistate/metrics"
	"github.com/persistate/persistate/observability"
)

func TestObserver_RegistersCollectors(t *testing.T) {
	obs := metrics.NewObserver()

	families, err := obs.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	// Vectors with no observations gather empty; the registry must still be
	// usable without panicking on double registration elsewhere.
	if len(families) != 0 {
		t.Errorf("fresh registry gathered %d families, want 0", len(families))
	}
}

func TestObserver_CountsEvents(t *testing.T) {
	obs := metrics.NewObserver()
	ctx := context.Background()

	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelDebug,
		Timestamp: time.Now(),
		Data:      map[string]any{"bytes": 42},
	})
	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelDebug,
		Timestamp: time.Now(),
		Data:      map[string]any{"bytes": 128},
	})
	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.unmarshal.failure",
		Level:     observability.LevelWarn,
		Timestamp: time.Now(),
		Data:      map[string]any{"message": "Could not unmarshal state from storage"},
	})

	families, err := obs.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	byName := make(map[string]bool, len(families))
	for _, family := range families {
		byName[family.GetName()] = true
	}

	for _, name := range []string{
		"persistate_events_total",
		"persistate_warnings_total",
		"persistate_payload_bytes",
		"persistate_last_event_timestamp_seconds",
	} {
		if !byName[name] {
			t.Errorf("Gather() missing family %q", name)
		}
	}
}

func TestObserver_WarningsExcludeDebug(t *testing.T) {
	obs := metrics.NewObserver()
	ctx := context.Background()

	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.restore",
		Level:     observability.LevelDebug,
		Timestamp: time.Now(),
	})

	body := scrape(t, obs)
	if strings.Contains(body, "persistate_warnings_total") {
		t.Errorf("debug event produced a warning series:\n%s", body)
	}
}

func TestObserver_Exposition(t *testing.T) {
	obs := metrics.NewObserver()
	ctx := context.Background()

	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelDebug,
		Timestamp: time.Now(),
		Data:      map[string]any{"bytes": 42},
	})
	obs.OnEvent(ctx, observability.Event{
		Type:      "persist.marshal.failure",
		Level:     observability.LevelWarn,
		Timestamp: time.Now(),
	})

	body := scrape(t, obs)

	want := []string{
		`persistate_events_total{level="DEBUG",type="persist.save"} 1`,
		`persistate_events_total{level="WARN",type="persist.marshal.failure"} 1`,
		`persistate_warnings_total{type="persist.marshal.failure"} 1`,
		`persistate_payload_bytes_count{type="persist.save"} 1`,
	}
	for _, line := range want {
		if !strings.Contains(body, line) {
			t.Errorf("exposition missing %q:\n%s", line, body)
		}
	}
}

func TestObserver_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs := metrics.NewObserver(metrics.WithRegistry(registry))

	obs.OnEvent(context.Background(), observability.Event{
		Type:      "persist.save",
		Level:     observability.LevelDebug,
		Timestamp: time.Now(),
	})

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("shared registry gathered no families, want event series")
	}
}

func scrape(t *testing.T, obs *metrics.Observer) string {
	t.Helper()

	server := httptest.NewServer(obs.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("scraping metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	return string(body)
}
