package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
)

// GetUtxos returns the unspent outputs of every wallet address.
func (u *Usecase) GetUtxos(ctx context.Context) ([]*types.UTXO, error) {
	addresses, err := u.wallet.GetAddresses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wallet addresses")
	}
	utxos, err := u.adapter.GetAddressesUtxos(ctx, addresses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wallet utxos")
	}
	return utxos, nil
}

// GetAssets flattens the asset slices held by the wallet outputs.
func (u *Usecase) GetAssets(ctx context.Context) ([]*types.WalletAsset, error) {
	utxos, err := u.GetUtxos(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	assets := make([]*types.WalletAsset, 0)
	for _, utxo := range utxos {
		for i, asset := range utxo.Assets {
			assets = append(assets, &types.WalletAsset{
				Address:           utxo.Address(),
				Txid:              utxo.Txid,
				Index:             utxo.Index,
				AssetId:           asset.AssetId,
				Amount:            asset.Amount,
				IssueTxid:         asset.IssueTxid,
				Divisibility:      asset.Divisibility,
				LockStatus:        asset.LockStatus,
				AggregationPolicy: asset.AggregationPolicy,
				AssetIndex:        i,
			})
		}
	}
	return assets, nil
}
