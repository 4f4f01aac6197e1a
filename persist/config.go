package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/persistate/persistate/codec"
	"github.com/persistate/persistate/observability"
	"github.com/persistate/persistate/reducible"
	"github.com/persistate/persistate/rules"
	"github.com/persistate/persistate/storage"
	"github.com/persistate/persistate/storage/remote"
)

// Config holds construction parameters for a persistent unit wrapper.
//
// Triggers is a pointer so JSON can distinguish the three trigger modes:
// omitted (persist every change), [] (never persist), and a non-empty
// allow-list.
type Config struct {
	Key        string         `json:"key"`
	Triggers   *[]string      `json:"triggers,omitempty"`
	Rule       string         `json:"rule,omitempty"`        // Optional persistence predicate.
	RuleEngine string         `json:"rule_engine,omitempty"` // "expr" (default) or "cel".
	Codec      string         `json:"codec,omitempty"`       // "json" (default), "cbor", or "proto".
	Store      string         `json:"store,omitempty"`       // Named store from the registry.
	StorageURL string         `json:"storage_url,omitempty"` // Remote store endpoint; overrides Store and Storage.
	Storage    storage.Config `json:"storage"`               // Inline store config, used when Store and StorageURL are empty.
	Observer   string         `json:"observer,omitempty"`    // Named observer from the registry.
}

// DefaultConfig returns a Config persisting to an in-process memory store.
func DefaultConfig() Config {
	return Config{Storage: storage.DefaultConfig()}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Key != "" {
		c.Key = source.Key
	}
	if source.Triggers != nil {
		c.Triggers = source.Triggers
	}
	if source.Rule != "" {
		c.Rule = source.Rule
	}
	if source.RuleEngine != "" {
		c.RuleEngine = source.RuleEngine
	}
	if source.Codec != "" {
		c.Codec = source.Codec
	}
	if source.Store != "" {
		c.Store = source.Store
	}
	if source.StorageURL != "" {
		c.StorageURL = source.StorageURL
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	c.Storage.Merge(&source.Storage)
}

// LoadConfig reads a JSON config file, merges it over defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// New creates a persistent wrapper around child from configuration. The
// store, codec, rule, and observer are resolved from their config sections;
// functional options applied afterwards can override any of them.
func New[S any](child reducible.Reducible[S], cfg *Config, opts ...Option[S]) (*Reducible[S], error) {
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	var options []Option[S]

	if cfg.Triggers != nil {
		options = append(options, WithTriggers[S]((*cfg.Triggers)...))
	}
	if cfg.Codec != "" {
		c, err := codec.New(cfg.Codec)
		if err != nil {
			return nil, fmt.Errorf("failed to create codec: %w", err)
		}
		options = append(options, WithCodec[S](c))
	}
	if cfg.Rule != "" {
		rule, err := rules.New(cfg.RuleEngine, cfg.Rule)
		if err != nil {
			return nil, fmt.Errorf("failed to create rule: %w", err)
		}
		options = append(options, WithRule[S](rule))
	}
	if cfg.Observer != "" {
		obs, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		options = append(options, WithObserver[S](obs))
	}

	options = append(options, opts...)

	return Wrap(child, store, cfg.Key, options...), nil
}

func buildStore(cfg *Config) (storage.Store, error) {
	switch {
	case cfg.StorageURL != "":
		return remote.NewClient(cfg.StorageURL), nil
	case cfg.Store != "":
		return storage.GetStore(cfg.Store)
	default:
		return storage.New(&cfg.Storage)
	}
}
