// Package ccrpc is a client of the colored coins API: asset queries and the
// remote transaction builder.
package ccrpc

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

type Config struct {
	Host    string        `mapstructure:"host"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
}

type Client struct {
	client *httpclient.Client
}

func New(config Config) (*Client, error) {
	client, err := httpclient.New(config.Host, httpclient.Config{
		Debug:   config.Debug,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create colored coins api client")
	}
	return &Client{client: client}, nil
}

// Get calls GET /<method>/<params...> and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, method string, params []string, out any) error {
	segments := append([]string{method}, params...)
	resp, err := c.client.Get(ctx, path.Join(segments...), httpclient.RequestOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", method)
	}
	if err := resp.Err(); err != nil {
		return errors.Wrapf(err, "%s failed", method)
	}
	if resp.StatusCode() == http.StatusNoContent || out == nil {
		return nil
	}
	return errors.Wrapf(resp.UnmarshalBody(out), "can't decode %s response", method)
}

func (c *Client) BuildIssue(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return c.build(ctx, "issue", req)
}

func (c *Client) BuildSend(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return c.build(ctx, "sendasset", req)
}

func (c *Client) BuildBurn(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return c.build(ctx, "burnasset", req)
}

func (c *Client) build(ctx context.Context, endpoint string, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	resp, err := c.client.PostJSON(ctx, endpoint, req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s", endpoint)
	}
	if err := resp.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s failed", endpoint)
	}
	var built types.BuiltTransaction
	if err := resp.UnmarshalBody(&built); err != nil {
		return nil, errors.Wrapf(err, "can't decode %s response", endpoint)
	}
	logger.DebugContext(ctx, "Built transaction",
		slogx.String("endpoint", endpoint),
		slogx.String("asset_id", built.AssetId),
		slogx.Int("tx_hex_length", len(built.TxHex)),
	)
	return &built, nil
}
