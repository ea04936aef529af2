package usecase

import (
	"context"
	"testing"

	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAssets(t *testing.T) {
	f := newFixture("A", "B")
	f.adapter.utxos["A"] = []*types.UTXO{
		utxo("u1", 1, "A",
			types.AssetSlice{AssetId: "La1", Amount: 10, Divisibility: 2},
			types.AssetSlice{AssetId: "La2", Amount: 3},
		),
	}
	f.adapter.utxos["B"] = []*types.UTXO{utxo("u2", 0, "B")}

	assets, err := f.usecase.GetAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*types.WalletAsset{
		{Address: "A", Txid: "u1", Index: 1, AssetId: "La1", Amount: 10, Divisibility: 2, AssetIndex: 0},
		{Address: "A", Txid: "u1", Index: 1, AssetId: "La2", Amount: 3, AssetIndex: 1},
	}, assets)
	assert.Equal(t, []string{"utxos A,B"}, f.log.Calls())
}

func TestGetTransactionsDedup(t *testing.T) {
	f := newFixture("A", "B")
	tx1, tx2, tx3 := &types.Transaction{Txid: "t1"}, &types.Transaction{Txid: "t2"}, &types.Transaction{Txid: "t3"}
	f.adapter.transactions = []*types.AddressTransactions{
		{Address: "A", Transactions: []*types.Transaction{tx1, tx2}},
		{Address: "B", Transactions: []*types.Transaction{tx2, nil, tx3, tx1}},
		nil,
	}

	transactions, err := f.usecase.GetTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []*types.Transaction{tx1, tx2, tx3}, transactions)
	assert.Equal(t, []string{"transactions A,B"}, f.log.Calls())

	_, err = f.usecase.GetTransactions(context.Background(), []string{"C"})
	require.NoError(t, err)
	assert.Contains(t, f.log.Calls(), "transactions C")
}

func issuance(txid string, issuer string, inputAssets []string, outputAssets ...[]string) *types.Transaction {
	tx := &types.Transaction{
		Txid:    txid,
		Colored: true,
		CCData:  []types.CCData{{Type: types.CCTypeIssuance, Amount: 36, Divisibility: 1, AggregationPolicy: "aggregatable"}},
		Vin: []types.TxInput{{
			Txid:           "prev",
			PreviousOutput: &types.PreviousOutput{Addresses: []string{issuer}},
		}},
	}
	for _, assetId := range inputAssets {
		tx.Vin[0].Assets = append(tx.Vin[0].Assets, types.AssetSlice{AssetId: assetId})
	}
	for i, ids := range outputAssets {
		out := types.TxOutput{N: uint32(i)}
		for _, assetId := range ids {
			out.Assets = append(out.Assets, types.AssetSlice{AssetId: assetId})
		}
		tx.Vout = append(tx.Vout, out)
	}
	return tx
}

func TestGetIssuedAssets(t *testing.T) {
	f := newFixture("A")
	transfer := issuance("transfer", "A", nil, []string{"Old"})
	transfer.CCData[0].Type = types.CCTypeTransfer

	transactions := []*types.Transaction{
		issuance("mine", "A", []string{"Old"}, []string{"Old", "New"}, nil, []string{"New"}),
		issuance("foreign", "X", nil, []string{"Other"}),
		issuance("reissue-only", "A", []string{"Old"}, []string{"Old"}),
		transfer,
		nil,
	}

	issued, err := f.usecase.GetIssuedAssets(context.Background(), transactions)
	require.NoError(t, err)
	assert.Equal(t, []*types.IssuedAsset{{
		IssueTxid:         "mine",
		Txid:              "mine",
		AssetId:           "New",
		Address:           "A",
		Amount:            36,
		Divisibility:      1,
		AggregationPolicy: "aggregatable",
		OutputIndexes:     []uint32{0, 2},
	}}, issued)
	assert.False(t, f.log.Has("transactions"))

	f.adapter.transactions = []*types.AddressTransactions{{Transactions: transactions}}
	issued, err = f.usecase.GetIssuedAssets(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, issued, 1)
	assert.True(t, f.log.Has("transactions A"))
}

func TestGetAssetMetadataCache(t *testing.T) {
	f := newFixture("A")
	f.rpc.responses["assetmetadata/La1"] = `{
		"assetId": "La1",
		"assetName": "stale",
		"totalSupply": 100,
		"metadataOfIssuence": {"data": {"assetName": "Gold", "issuer": "Mint", "urls": [{"name": "icon", "url": "https://icon"}]}}
	}`
	f.rpc.responses["assetmetadata/La1/u1:0"] = `{"assetId": "La1", "assetName": "Utxo Gold"}`
	ctx := context.Background()

	partial, err := f.usecase.GetAssetMetadata(ctx, "La1", "", false)
	require.NoError(t, err)
	assert.True(t, partial.PartialMetadataOnly)
	assert.Equal(t, "Gold", partial.AssetName)
	assert.Equal(t, "https://icon", partial.Icon)
	assert.Zero(t, partial.TotalSupply)

	_, err = f.usecase.GetAssetMetadata(ctx, "La1", "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"rpc assetmetadata/La1"}, f.log.Calls())

	full, err := f.usecase.GetAssetMetadata(ctx, "La1", "", true)
	require.NoError(t, err)
	assert.False(t, full.PartialMetadataOnly)
	assert.Equal(t, "Gold", full.AssetName)
	assert.Equal(t, int64(100), full.TotalSupply)
	assert.Len(t, f.log.Calls(), 2)

	byUtxo, err := f.usecase.GetAssetMetadata(ctx, "La1", "u1:0", false)
	require.NoError(t, err)
	assert.Equal(t, "Utxo Gold", byUtxo.AssetName)

	_, err = f.usecase.GetAssetMetadata(ctx, "", "", false)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestColoredCoinsQueries(t *testing.T) {
	f := newFixture("A")
	f.rpc.responses["addressinfo/A"] = `{"address": "A", "utxos": [{"txid": "u1", "index": 0, "value": 1}]}`
	f.rpc.responses["stakeholders/La1/0"] = `{"assetId": "La1", "holders": [{"address": "A", "amount": 5}]}`
	ctx := context.Background()

	info, err := f.usecase.GetAddressInfo(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", info.Address)
	require.Len(t, info.Utxos, 1)

	holders, err := f.usecase.GetStakeHolders(ctx, "La1", 0)
	require.NoError(t, err)
	assert.Equal(t, []types.StakeHolder{{Address: "A", Amount: 5}}, holders.Holders)

	_, err = f.usecase.GetStakeHolders(ctx, "La1", -1)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = f.usecase.VerifyIssuer(ctx, "La1", "")
	assert.ErrorIs(t, err, errs.Unsupported)

	doc, err := f.usecase.DownloadMetadata(ctx, "th")
	require.NoError(t, err)
	assert.Equal(t, "th", doc.Data.AssetName)
}
