package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAddress  = testnetAddress(1)
	testAddress2 = testnetAddress(2)
)

func testnetAddress(seed byte) string {
	addr, err := btcutil.NewAddressPubKeyHash(bytes.Repeat([]byte{seed}, 20), &chaincfg.TestNet3Params)
	if err != nil {
		panic(err)
	}
	return addr.EncodeAddress()
}

type fakeUsecase struct {
	Usecase

	addresses     []string
	confirmations int
	operation     types.OperationKind
	request       *types.AssetOperationRequest
	sendErr       error
	claim         string
	full          bool
}

func (f *fakeUsecase) Backend() adapters.Backend { return adapters.BackendExplorer }
func (f *fakeUsecase) Status() types.SyncStatus  { return types.SyncStatusSynced }

func (f *fakeUsecase) CurrentAddress(context.Context) (string, error) { return testAddress, nil }

func (f *fakeUsecase) GetTransactions(_ context.Context, addresses []string) ([]*types.Transaction, error) {
	f.addresses = addresses
	return []*types.Transaction{{Txid: "aa"}}, nil
}

func (f *fakeUsecase) GetAssetMetadata(_ context.Context, assetId string, utxo string, full bool) (*types.AssetMetadata, error) {
	f.full = full
	return &types.AssetMetadata{AssetId: assetId}, nil
}

func (f *fakeUsecase) GetStakeHolders(_ context.Context, assetId string, confirmations int) (*types.StakeHolders, error) {
	f.confirmations = confirmations
	return &types.StakeHolders{AssetId: assetId}, nil
}

func (f *fakeUsecase) VerifyIssuer(_ context.Context, _ string, claim string) (json.RawMessage, error) {
	f.claim = claim
	return json.RawMessage(`{"verified":true}`), nil
}

func (f *fakeUsecase) IssueAsset(_ context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	f.operation, f.request = types.OperationIssue, req
	return &types.AssetOperationResult{Txid: "tx", AssetId: "La1"}, nil
}

func (f *fakeUsecase) SendAsset(_ context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	f.operation, f.request = types.OperationSend, req
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &types.AssetOperationResult{Txid: "tx"}, nil
}

func (f *fakeUsecase) BuildTransaction(_ context.Context, kind types.OperationKind, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	f.operation, f.request = kind, req
	return &types.BuiltTransaction{TxHex: "0100"}, nil
}

func (f *fakeUsecase) Sign(_ context.Context, txHex string) (string, error) {
	return "signed-" + txHex, nil
}

func newTestApp(t *testing.T, uc Usecase) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(common.NetworkTestnet, uc).Mount(app))
	return app
}

func doRequest[T any](t *testing.T, app *fiber.App, method, target, body string) (int, common.HttpResponse[T]) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out common.HttpResponse[T]
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestGetStatus(t *testing.T) {
	app := newTestApp(t, &fakeUsecase{})

	status, resp := doRequest[getStatusResult](t, app, http.MethodGet, "/v1/coloredcoins/status", "")
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "testnet", resp.Result.Network)
	assert.Equal(t, adapters.BackendExplorer.String(), resp.Result.Backend)
	assert.Equal(t, types.SyncStatusSynced.String(), resp.Result.Status)

	status, addr := doRequest[getCurrentAddressResult](t, app, http.MethodGet, "/v1/coloredcoins/address", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, testAddress, addr.Result.Address)
}

func TestGetTransactions(t *testing.T) {
	uc := &fakeUsecase{}
	app := newTestApp(t, uc)

	status, resp := doRequest[[]*types.Transaction](t, app, http.MethodGet, "/v1/coloredcoins/transactions?addresses="+testAddress+","+testAddress2+","+testAddress, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{testAddress, testAddress2}, uc.addresses)
	require.NotNil(t, resp.Result)
	assert.Len(t, *resp.Result, 1)

	status, _ = doRequest[[]*types.Transaction](t, app, http.MethodGet, "/v1/coloredcoins/transactions", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, uc.addresses)

	status, resp = doRequest[[]*types.Transaction](t, app, http.MethodGet, "/v1/coloredcoins/transactions?addresses=not-an-address", "")
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "validation error")
}

func TestGetAssetMetadataAndStakeHolders(t *testing.T) {
	uc := &fakeUsecase{}
	app := newTestApp(t, uc)

	status, metadata := doRequest[*types.AssetMetadata](t, app, http.MethodGet, "/v1/coloredcoins/assets/La1/metadata?full=true", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "La1", (*metadata.Result).AssetId)
	assert.True(t, uc.full)

	status, _ = doRequest[*types.AssetMetadata](t, app, http.MethodGet, "/v1/coloredcoins/assets/La1/metadata?utxo=bad", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, holders := doRequest[*types.StakeHolders](t, app, http.MethodGet, "/v1/coloredcoins/assets/La1/stakeholders?confirmations=3", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "La1", (*holders.Result).AssetId)
	assert.Equal(t, 3, uc.confirmations)

	status, _ = doRequest[*types.StakeHolders](t, app, http.MethodGet, "/v1/coloredcoins/assets/La1/stakeholders?confirmations=-1", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyIssuer(t *testing.T) {
	uc := &fakeUsecase{}
	app := newTestApp(t, uc)

	status, resp := doRequest[json.RawMessage](t, app, http.MethodPost, "/v1/coloredcoins/assets/La1/verify", `{"social":{"twitter":"x"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"verified":true}`, string(*resp.Result))
	assert.JSONEq(t, `{"social":{"twitter":"x"}}`, uc.claim)

	status, _ = doRequest[json.RawMessage](t, app, http.MethodPost, "/v1/coloredcoins/assets/La1/verify", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAssetOperations(t *testing.T) {
	uc := &fakeUsecase{}
	app := newTestApp(t, uc)

	status, resp := doRequest[*types.AssetOperationResult](t, app, http.MethodPost, "/v1/coloredcoins/issue",
		`{"amount":36,"fee":1000,"issueAddress":"`+testAddress+`","transfer":[{"address":"`+testAddress2+`","amount":1}]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "La1", (*resp.Result).AssetId)
	assert.Equal(t, types.OperationIssue, uc.operation)
	assert.EqualValues(t, 36, uc.request.Amount)
	assert.EqualValues(t, 1000, uc.request.Fee)
	assert.Equal(t, testAddress, uc.request.IssueAddress)

	status, _ = doRequest[*types.AssetOperationResult](t, app, http.MethodPost, "/v1/coloredcoins/send",
		`{"fee":1000,"sendutxo":["`+strings.Repeat("ab", 32)+`:1"],"to":[{"address":"`+testAddress2+`","amount":1,"assetId":"La1"}]}`)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, uc.request.SendUtxo, 1)
	assert.True(t, uc.request.SendUtxo[0].IsRef())

	status, _ = doRequest[*types.AssetOperationResult](t, app, http.MethodPost, "/v1/coloredcoins/send", `{"from":["nope"]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, built := doRequest[*types.BuiltTransaction](t, app, http.MethodPost, "/v1/coloredcoins/build/burn", `{"from":["`+testAddress+`"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0100", (*built.Result).TxHex)
	assert.Equal(t, types.OperationBurn, uc.operation)

	status, _ = doRequest[*types.BuiltTransaction](t, app, http.MethodPost, "/v1/coloredcoins/build/mint", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAssetOperationErrors(t *testing.T) {
	testCases := []struct {
		err            error
		expectedStatus int
	}{
		{err: errors.WithStack(errs.MissingInputSpec), expectedStatus: http.StatusBadRequest},
		{err: errors.Wrap(errs.NotFound, "utxo"), expectedStatus: http.StatusNotFound},
		{err: errs.WithKind(errors.New("insufficient funds"), errs.BuildFailed), expectedStatus: http.StatusUnprocessableEntity},
		{err: errs.WithKind(errors.New("rejected"), errs.BroadcastFailed), expectedStatus: http.StatusBadGateway},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			app := newTestApp(t, &fakeUsecase{sendErr: tc.err})
			status, resp := doRequest[*types.AssetOperationResult](t, app, http.MethodPost, "/v1/coloredcoins/send", `{}`)
			assert.Equal(t, tc.expectedStatus, status)
			require.NotNil(t, resp.Error)
			assert.Nil(t, resp.Result)
		})
	}
}

func TestSign(t *testing.T) {
	app := newTestApp(t, &fakeUsecase{})

	status, resp := doRequest[signResult](t, app, http.MethodPost, "/v1/coloredcoins/sign", `{"txHex":"0100"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "signed-0100", resp.Result.SignedTxHex)

	status, _ = doRequest[signResult](t, app, http.MethodPost, "/v1/coloredcoins/sign", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest[types.TransmitResult](t, app, http.MethodPost, "/v1/coloredcoins/transmit", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
