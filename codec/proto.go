package codec

import (
	"encoding/json"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto encodes state as a protobuf google.protobuf.Value. The state is
// normalized through its JSON form first, so any JSON-serializable state
// round-trips without generated message types.
type Proto struct{}

var _ Codec = Proto{}

func (Proto) Name() string { return "proto" }

func (Proto) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	value, err := structpb.NewValue(generic)
	if err != nil {
		return nil, err
	}

	return proto.Marshal(value)
}

func (Proto) Unmarshal(data []byte, v any) error {
	var value structpb.Value
	if err := proto.Unmarshal(data, &value); err != nil {
		return err
	}

	jsonData, err := json.Marshal(value.AsInterface())
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonData, v)
}
