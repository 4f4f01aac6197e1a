// Package remote exposes a storage.Store over Connect RPC so persisted
// state can live in another process. Requests and responses are plain JSON
// message structs carried by a custom codec; no generated code is involved,
// and any Connect- or gRPC-compatible client can speak to the handler.
package remote

import "encoding/json"

// Procedure paths for the store service.
const (
	ProcedureGet    = "/persistate.storage.v1.StoreService/Get"
	ProcedureSet    = "/persistate.storage.v1.StoreService/Set"
	ProcedureDelete = "/persistate.storage.v1.StoreService/Delete"
	ProcedureKeys   = "/persistate.storage.v1.StoreService/Keys"
)

// servicePrefix is the mount point covering all procedures.
const servicePrefix = "/persistate.storage.v1.StoreService/"

type getRequest struct {
	Key string `json:"key"`
}

type getResponse struct {
	Value []byte `json:"value"`
}

type setRequest struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

type setResponse struct{}

type deleteRequest struct {
	Key string `json:"key"`
}

type deleteResponse struct{}

type keysRequest struct{}

type keysResponse struct {
	Keys []string `json:"keys"`
}

// jsonCodec carries the message structs as plain JSON on the wire.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
