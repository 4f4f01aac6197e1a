package codec

import "encoding/json"

// JSON is the default codec. Persisted bytes are the plain JSON serialization
// of the (transformed) state value, readable with any text tooling.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
