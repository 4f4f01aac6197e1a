package remote

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/persistate/persistate/storage"
)

// Client is a storage.Store backed by a remote store service.
type Client struct {
	get  *connect.Client[getRequest, getResponse]
	set  *connect.Client[setRequest, setResponse]
	del  *connect.Client[deleteRequest, deleteResponse]
	keys *connect.Client[keysRequest, keysResponse]
}

var _ storage.Store = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient connect.HTTPClient
}

// WithHTTPClient overrides the default http.DefaultClient, e.g. to add
// timeouts or transport middleware.
func WithHTTPClient(c connect.HTTPClient) ClientOption {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

// NewClient creates a Store talking to the service mounted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	cfg := clientConfig{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&cfg)
	}

	withCodec := connect.WithCodec(jsonCodec{})

	return &Client{
		get:  connect.NewClient[getRequest, getResponse](cfg.httpClient, baseURL+ProcedureGet, withCodec),
		set:  connect.NewClient[setRequest, setResponse](cfg.httpClient, baseURL+ProcedureSet, withCodec),
		del:  connect.NewClient[deleteRequest, deleteResponse](cfg.httpClient, baseURL+ProcedureDelete, withCodec),
		keys: connect.NewClient[keysRequest, keysResponse](cfg.httpClient, baseURL+ProcedureKeys, withCodec),
	}
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	resp, err := c.get.CallUnary(ctx, connect.NewRequest(&getRequest{Key: key}))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s: %v", storage.ErrLoadFailed, key, err)
	}
	return resp.Msg.Value, true, nil
}

func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.set.CallUnary(ctx, connect.NewRequest(&setRequest{Key: key, Value: value}))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrSaveFailed, key, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.del.CallUnary(ctx, connect.NewRequest(&deleteRequest{Key: key}))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrDeleteFailed, key, err)
	}
	return nil
}

func (c *Client) Keys(ctx context.Context) ([]string, error) {
	resp, err := c.keys.CallUnary(ctx, connect.NewRequest(&keysRequest{}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrLoadFailed, err)
	}
	return resp.Msg.Keys, nil
}
