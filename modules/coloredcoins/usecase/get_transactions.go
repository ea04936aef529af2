package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/samber/lo"
)

// GetTransactions returns the transactions of addresses, or of the wallet when
// none are given, each txid once in first-seen order.
func (u *Usecase) GetTransactions(ctx context.Context, addresses []string) ([]*types.Transaction, error) {
	if len(addresses) == 0 {
		var err error
		if addresses, err = u.wallet.GetAddresses(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to get wallet addresses")
		}
	}
	groups, err := u.adapter.GetAddressesTransactions(ctx, addresses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get address transactions")
	}

	seen := make(map[string]struct{})
	transactions := make([]*types.Transaction, 0)
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, tx := range group.Transactions {
			if tx == nil {
				continue
			}
			if _, ok := seen[tx.Txid]; ok {
				continue
			}
			seen[tx.Txid] = struct{}{}
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// GetIssuedAssets returns the issuances made by wallet addresses, looking at
// transactions or, when nil, at the wallet history.
func (u *Usecase) GetIssuedAssets(ctx context.Context, transactions []*types.Transaction) ([]*types.IssuedAsset, error) {
	addresses, err := u.wallet.GetAddresses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wallet addresses")
	}
	if transactions == nil {
		if transactions, err = u.GetTransactions(ctx, addresses); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return issuedAssets(addresses, transactions), nil
}

// issuedAssets detects issuances: the issued asset is the one found in the
// outputs but not in the inputs, and the first input must belong to addresses.
func issuedAssets(addresses []string, transactions []*types.Transaction) []*types.IssuedAsset {
	owned := lo.SliceToMap(addresses, func(address string) (string, struct{}) {
		return address, struct{}{}
	})

	issuances := make([]*types.IssuedAsset, 0)
	for _, tx := range transactions {
		if tx == nil || !tx.IsIssuance() {
			continue
		}
		inputAssets := make(map[string]struct{})
		for _, in := range tx.Vin {
			for _, asset := range in.Assets {
				inputAssets[asset.AssetId] = struct{}{}
			}
		}

		var (
			assetId string
			indexes []uint32
		)
		for i, out := range tx.Vout {
			for _, asset := range out.Assets {
				if _, ok := inputAssets[asset.AssetId]; ok {
					continue
				}
				assetId = asset.AssetId
				indexes = append(indexes, uint32(i))
			}
		}
		if assetId == "" {
			continue
		}
		if len(tx.Vin) == 0 || tx.Vin[0].PreviousOutput == nil || len(tx.Vin[0].PreviousOutput.Addresses) == 0 {
			continue
		}
		issuer := tx.Vin[0].PreviousOutput.Addresses[0]
		if _, ok := owned[issuer]; !ok {
			continue
		}

		ccdata := tx.CCData[0]
		issuances = append(issuances, &types.IssuedAsset{
			IssueTxid:         tx.Txid,
			Txid:              tx.Txid,
			AssetId:           assetId,
			Address:           issuer,
			Amount:            ccdata.Amount,
			Divisibility:      ccdata.Divisibility,
			LockStatus:        ccdata.LockStatus,
			AggregationPolicy: ccdata.AggregationPolicy,
			OutputIndexes:     indexes,
		})
	}
	return issuances
}
