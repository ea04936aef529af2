package usecase

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/crypto"
	ecies "github.com/ecies/go/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAsset(t *testing.T) {
	f := newFixture("A")
	f.adapter.utxos["A"] = []*types.UTXO{utxo("u1", 0, "A")}

	req := &types.AssetOperationRequest{
		IssueAddress: "A",
		Amount:       36,
		Fee:          1000,
		Transfer:     []types.Transfer{{Address: "B", Amount: 6}},
	}
	result, err := f.usecase.IssueAsset(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, &types.AssetOperationResult{
		Txid:               "txid-1",
		TxHex:              "signed-unsigned",
		AssetId:            "La1",
		IssueAddress:       "A",
		ReceivingAddresses: []types.Transfer{{Address: "B", Amount: 6}},
	}, result)
	assert.Equal(t, []string{"utxos A", "build issue", "sign unsigned", "transmit signed-unsigned"}, f.log.Calls())

	require.Len(t, f.builder.requests, 1)
	built := f.builder.requests[0]
	assert.Equal(t, int64(36), built.Amount)
	assert.Equal(t, int64(1000), built.Fee)
	assert.Equal(t, []*types.UTXO{utxo("u1", 0, "A")}, built.Utxos)
	assert.True(t, built.Flags.InjectPreviousOutput)
	assert.True(t, *built.Flags.SplitChange)

	// the caller's request is left untouched
	assert.Nil(t, req.Utxos)
	assert.Nil(t, req.Flags)
}

func TestIssueAssetDefaultsToCurrentAddress(t *testing.T) {
	f := newFixture("A", "B")
	result, err := f.usecase.IssueAsset(context.Background(), &types.AssetOperationRequest{Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, "B", result.IssueAddress)
	assert.Equal(t, []types.Transfer{}, result.ReceivingAddresses)

	empty := newFixture()
	_, err = empty.usecase.IssueAsset(context.Background(), &types.AssetOperationRequest{Amount: 1})
	assert.ErrorIs(t, err, errs.MissingInputSpec)
}

func TestOperationWithoutTransmit(t *testing.T) {
	f := newFixture("A")
	result, err := f.usecase.BurnAsset(context.Background(), &types.AssetOperationRequest{
		From:     []string{"A"},
		Burn:     []types.Burn{{AssetId: "La1", Amount: 1}},
		Transmit: lo.ToPtr(false),
		Flags:    &types.BuildFlags{SplitChange: lo.ToPtr(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, &types.AssetOperationResult{SignedTxHex: "signed-unsigned"}, result)
	assert.False(t, f.log.Has("transmit"))
	assert.False(t, *f.builder.requests[0].Flags.SplitChange)
	assert.True(t, f.builder.requests[0].Flags.InjectPreviousOutput)
}

func TestSendAssetResolvesUtxoReferences(t *testing.T) {
	f := newFixture("A")
	ref := types.OutPointRef{Txid: "r1", Index: 2}
	f.adapter.refs[ref] = utxo("r1", 2, "A")
	object := utxo("o1", 0, "A")

	_, err := f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{
		SendUtxo: []types.UtxoSpec{types.NewUtxoSpecFromRef(ref), types.NewUtxoSpecFromUTXO(object)},
		To:       []types.Transfer{{Address: "B", Amount: 1, AssetId: "La1"}},
	})
	require.NoError(t, err)

	sent := f.builder.requests[0]
	require.Len(t, sent.Utxos, 2)
	assert.Equal(t, "o1", sent.Utxos[0].Txid)
	assert.Equal(t, "r1", sent.Utxos[1].Txid)
	assert.Nil(t, sent.SendUtxo)
	assert.Contains(t, f.log.Calls(), "getutxos 1")

	_, err = f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{
		SendUtxo: []types.UtxoSpec{types.NewUtxoSpecFromRef(types.OutPointRef{Txid: "missing"})},
	})
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestOperationErrors(t *testing.T) {
	t.Run("missing inputs", func(t *testing.T) {
		f := newFixture("A")
		_, err := f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{})
		assert.ErrorIs(t, err, errs.MissingInputSpec)
		assert.Empty(t, f.builder.requests)
	})

	t.Run("build failure", func(t *testing.T) {
		f := newFixture("A")
		f.builder.err = errors.New("insufficient funds")
		_, err := f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{From: []string{"A"}})
		assert.ErrorIs(t, err, errs.BuildFailed)
		assert.ErrorContains(t, err, "insufficient funds")
		assert.False(t, f.log.Has("sign"))
	})

	t.Run("empty build", func(t *testing.T) {
		f := newFixture("A")
		f.builder.built = &types.BuiltTransaction{}
		_, err := f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{From: []string{"A"}})
		assert.ErrorIs(t, err, errs.BuildFailed)
	})

	t.Run("broadcast failure", func(t *testing.T) {
		f := newFixture("A")
		f.adapter.transmitErr = &adapters.AdapterError{Backend: adapters.BackendExplorer, Method: "transmit", StatusCode: 500, Body: "rejected"}
		_, err := f.usecase.SendAsset(context.Background(), &types.AssetOperationRequest{From: []string{"A"}})
		assert.ErrorIs(t, err, errs.BroadcastFailed)
		var adapterErr *adapters.AdapterError
		require.ErrorAs(t, err, &adapterErr)
		assert.Equal(t, 500, adapterErr.StatusCode)
	})

	t.Run("unknown kind", func(t *testing.T) {
		f := newFixture("A")
		_, err := f.usecase.BuildTransaction(context.Background(), types.OperationKind("mint"), &types.AssetOperationRequest{})
		assert.ErrorIs(t, err, errs.Unsupported)
	})
}

func decryptSection(t *testing.T, privateKeyHex string, ciphertext []byte) string {
	t.Helper()
	key, err := ecies.NewPrivateKeyFromHex(privateKeyHex)
	require.NoError(t, err)
	plaintext, err := ecies.Decrypt(key, ciphertext)
	require.NoError(t, err)
	return string(plaintext)
}

func TestOperationMetadata(t *testing.T) {
	recipient, err := crypto.Generate()
	require.NoError(t, err)

	f := newFixture("A")
	req := &types.AssetOperationRequest{
		IssueAddress: "A",
		Amount:       10,
		Metadata: &types.Metadata{
			AssetName: "Gold",
			UserData: map[string]any{
				"secret":  "shh",
				"private": map[string]any{"pin": "1234"},
				"public":  "hello",
			},
			Encryptions: []types.Encryption{
				{Key: "secret"},
				{Key: "private", PubKey: recipient.PublicKeyHex(), Format: crypto.FormatHex},
				{Key: "absent"},
			},
		},
		Rules: map[string]any{"expiration": map[string]any{"validUntil": 1}},
	}
	result, err := f.usecase.IssueAsset(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.PrivateKey)

	// seeding completes before the broadcast
	calls := f.log.Calls()
	assert.Less(t, lo.IndexOf(calls, "seed th"), lo.IndexOf(calls, "transmit signed-unsigned"))
	assert.Less(t, lo.IndexOf(calls, "upload"), lo.IndexOf(calls, "build issue"))

	require.Len(t, f.metadata.uploaded, 1)
	doc := f.metadata.uploaded[0]
	assert.Equal(t, req.Rules, doc.Rules)
	assert.Equal(t, "hello", doc.Data.UserData["public"])

	secret, err := base64.StdEncoding.DecodeString(doc.Data.UserData["secret"].(string))
	require.NoError(t, err)
	assert.Equal(t, "shh", decryptSection(t, result.PrivateKey, secret))

	private, err := hex.DecodeString(doc.Data.UserData["private"].(string))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pin":"1234"}`, decryptSection(t, recipient.PrivateKeyHex(), private))

	built := f.builder.requests[0]
	assert.Equal(t, "th", built.TorrentHash)
	assert.Equal(t, "sha2", built.Sha2)
	assert.Equal(t, doc.Data, built.Metadata)

	// the caller's metadata keeps its plaintext
	assert.Equal(t, "shh", req.Metadata.UserData["secret"])
}

func TestOperationMetadataWithRecipientKeyOnly(t *testing.T) {
	recipient, err := crypto.Generate()
	require.NoError(t, err)

	f := newFixture("A")
	result, err := f.usecase.IssueAsset(context.Background(), &types.AssetOperationRequest{
		IssueAddress: "A",
		Metadata: &types.Metadata{
			UserData:    map[string]any{"secret": "shh"},
			Encryptions: []types.Encryption{{Key: "secret", PubKey: recipient.PublicKeyHex()}},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.PrivateKey)

	_, err = f.usecase.IssueAsset(context.Background(), &types.AssetOperationRequest{
		IssueAddress: "A",
		Metadata: &types.Metadata{
			UserData:    map[string]any{"secret": "shh"},
			Encryptions: []types.Encryption{{Key: "secret", PubKey: "not-a-key"}},
		},
	})
	assert.ErrorIs(t, err, errs.EncryptionFailed)
	assert.Len(t, f.metadata.uploaded, 1)
}
