package remote

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/persistate/persistate/storage"
)

// NewHandler mounts the store service over the given Store. The returned
// path/handler pair plugs into any mux:
//
//	mux := http.NewServeMux()
//	mux.Handle(remote.NewHandler(store))
//	http.ListenAndServe(addr, mux)
func NewHandler(store storage.Store, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()

	mux.Handle(ProcedureGet, connect.NewUnaryHandler(ProcedureGet,
		func(ctx context.Context, req *connect.Request[getRequest]) (*connect.Response[getResponse], error) {
			value, ok, err := store.Get(ctx, req.Msg.Key)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			if !ok {
				return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("key not found: %s", req.Msg.Key))
			}
			return connect.NewResponse(&getResponse{Value: value}), nil
		}, opts...))

	mux.Handle(ProcedureSet, connect.NewUnaryHandler(ProcedureSet,
		func(ctx context.Context, req *connect.Request[setRequest]) (*connect.Response[setResponse], error) {
			if err := store.Set(ctx, req.Msg.Key, req.Msg.Value); err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(&setResponse{}), nil
		}, opts...))

	mux.Handle(ProcedureDelete, connect.NewUnaryHandler(ProcedureDelete,
		func(ctx context.Context, req *connect.Request[deleteRequest]) (*connect.Response[deleteResponse], error) {
			if err := store.Delete(ctx, req.Msg.Key); err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(&deleteResponse{}), nil
		}, opts...))

	mux.Handle(ProcedureKeys, connect.NewUnaryHandler(ProcedureKeys,
		func(ctx context.Context, req *connect.Request[keysRequest]) (*connect.Response[keysResponse], error) {
			keys, err := store.Keys(ctx)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(&keysResponse{Keys: keys}), nil
		}, opts...))

	return servicePrefix, mux
}
