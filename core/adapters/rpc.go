package adapters

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
)

type rpcClient struct {
	backend Backend
	client  *httpclient.Client
}

// postJSON posts a JSON body and decodes the JSON response into out.
func (r *rpcClient) postJSON(ctx context.Context, method string, path string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(err, "can't marshal %s params", method)
	}
	resp, err := r.client.Post(ctx, path, httpclient.RequestOptions{Body: body})
	if err != nil {
		return errors.WithStack(&AdapterError{Backend: r.backend, Method: method, cause: err})
	}
	return r.decode(method, resp, out)
}

// postForm posts form encoded params and decodes the JSON response into out.
func (r *rpcClient) postForm(ctx context.Context, method string, path string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	resp, err := r.client.Post(ctx, path, httpclient.RequestOptions{FormData: form})
	if err != nil {
		return errors.WithStack(&AdapterError{Backend: r.backend, Method: method, cause: err})
	}
	return r.decode(method, resp, out)
}

func (r *rpcClient) decode(method string, resp *httpclient.HttpResponse, out any) error {
	if resp.IsSuccess() && resp.IsEmpty() {
		return errors.WithStack(ErrEmptyResponse)
	}
	if !resp.IsSuccess() {
		return errors.WithStack(&AdapterError{
			Backend:    r.backend,
			Method:     method,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		})
	}
	if out == nil {
		return nil
	}
	if err := resp.UnmarshalBody(out); err != nil {
		return errors.WithStack(&AdapterError{
			Backend:    r.backend,
			Method:     method,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
			cause:      err,
		})
	}
	return nil
}

// formArray encodes values as key[0]=..&key[1]=..
func formArray(form url.Values, key string, values []string) url.Values {
	for i, value := range values {
		form.Set(key+"["+strconv.Itoa(i)+"]", value)
	}
	return form
}

// txidFromHex computes the transaction id of a serialized transaction.
func txidFromHex(txHex string) (string, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", errors.Wrap(err, "can't decode transaction hex")
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", errors.Wrap(err, "can't deserialize transaction")
	}
	return tx.TxHash().String(), nil
}

// transmitResult resolves the broadcast result, deriving the txid locally
// when the backend answered without content.
func transmitResult(signedTxHex string, result *types.TransmitResult, err error) (*types.TransmitResult, error) {
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		return nil, err
	}
	if result != nil && result.Txid != "" {
		return result, nil
	}
	txid, err := txidFromHex(signedTxHex)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &types.TransmitResult{Txid: txid}, nil
}

// unwrapTransaction decodes a pushed transaction, removing the envelope keyed by
// the event name or "transaction" when present.
func unwrapTransaction(data []byte, envelopeKeys ...string) (*types.Transaction, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "can't decode event payload")
	}
	payload := data
	for _, key := range append(envelopeKeys, "transaction") {
		if inner, ok := envelope[key]; ok {
			payload = inner
			break
		}
	}
	var tx types.Transaction
	if err := json.Unmarshal(payload, &tx); err != nil {
		return nil, errors.Wrap(err, "can't decode transaction")
	}
	if tx.Txid == "" {
		return nil, errors.New("transaction without txid")
	}
	return &tx, nil
}
