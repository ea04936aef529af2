// Package metadataserver is a client of the metadata server storing asset
// metadata documents and sharing them over the torrent network.
package metadataserver

import (
	"context"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

type Config struct {
	Host  string `mapstructure:"host"`
	Debug bool   `mapstructure:"debug"`
}

type Client struct {
	client *httpclient.Client
}

func New(config Config) (*Client, error) {
	client, err := httpclient.New(config.Host, httpclient.Config{Debug: config.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create metadata server client")
	}
	return &Client{client: client}, nil
}

type uploadRequest struct {
	Metadata *types.MetadataDocument `json:"metadata"`
}

// Upload stores the document and returns the references needed by the builder.
func (c *Client) Upload(ctx context.Context, doc *types.MetadataDocument) (*types.MetadataRef, error) {
	resp, err := c.client.PostJSON(ctx, "addMetadata", uploadRequest{Metadata: doc})
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload metadata")
	}
	if err := resp.Err(); err != nil {
		return nil, errors.Wrap(err, "metadata server rejected upload")
	}
	var ref types.MetadataRef
	if err := resp.UnmarshalBody(&ref); err != nil {
		return nil, errors.WithStack(err)
	}
	if ref.TorrentHash == "" {
		return nil, errors.New("metadata server returned no torrent hash")
	}
	if ref.Sha1 == "" {
		ref.Sha1 = ref.TorrentHash
	}
	logger.DebugContext(ctx, "Uploaded metadata", slogx.String("torrent_hash", ref.TorrentHash))
	return &ref, nil
}

// Seed asks the server to start sharing an uploaded document.
func (c *Client) Seed(ctx context.Context, torrentHash string) error {
	resp, err := c.client.Get(ctx, "shareMetadata", httpclient.RequestOptions{
		Query: url.Values{"torrentHash": {torrentHash}},
	})
	if err != nil {
		return errors.Wrap(err, "failed to seed metadata")
	}
	return errors.Wrap(resp.Err(), "metadata server rejected seed")
}

// Download fetches a shared document by torrent hash.
func (c *Client) Download(ctx context.Context, torrentHash string) (*types.MetadataDocument, error) {
	resp, err := c.client.Get(ctx, "getMetadata", httpclient.RequestOptions{
		Query: url.Values{"torrentHash": {torrentHash}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to download metadata")
	}
	if err := resp.Err(); err != nil {
		return nil, errors.Wrap(err, "metadata server rejected download")
	}
	var doc types.MetadataDocument
	if err := resp.UnmarshalBody(&doc); err != nil {
		return nil, errors.WithStack(err)
	}
	return &doc, nil
}
