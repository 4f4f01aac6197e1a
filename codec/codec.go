// Package codec provides the serializations a persisted state value can take
// on its way into storage. JSON is the default; CBOR offers compact
// deterministic bytes, and Proto carries JSON-shaped values as protobuf for
// stores shared with protobuf consumers.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec is returned by New for unrecognized codec names.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec serializes state values to storage bytes and back.
type Codec interface {
	// Name identifies the codec in configuration ("json", "cbor", "proto").
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// New returns the codec registered under name. An empty name selects JSON.
func New(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return CBOR{}, nil
	case "proto":
		return Proto{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
}
