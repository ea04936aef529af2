package ccrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
)

// ErrNoContent is returned when the verifier has nothing on the asset.
var ErrNoContent = errors.New("No Content")

// Verifier checks the issuer claims of an asset against the public verifier.
type Verifier struct {
	client *httpclient.Client
}

func NewVerifier(endpoint string, debug bool) (*Verifier, error) {
	client, err := httpclient.New(endpoint, httpclient.Config{Debug: debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create verifier client")
	}
	return &Verifier{client: client}, nil
}

// VerifyIssuer posts asset_id and the optional json claim and returns the verdict document.
func (v *Verifier) VerifyIssuer(ctx context.Context, assetId string, claim string) (json.RawMessage, error) {
	form := url.Values{"asset_id": {assetId}}
	if claim != "" {
		form.Set("json", claim)
	}
	resp, err := v.client.Post(ctx, "", httpclient.RequestOptions{FormData: form})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call verifier")
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil, errors.WithStack(ErrNoContent)
	}
	if err := resp.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, errors.Errorf("verifier returned a non-json body: %q", string(body))
	}
	return json.RawMessage(append([]byte(nil), body...)), nil
}
