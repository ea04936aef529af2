package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/jellydator/ttlcache/v3"
)

func metadataCacheKey(assetId, utxo string) string {
	if utxo == "" {
		utxo = "0"
	}
	return assetId + "/" + utxo
}

// GetAssetMetadata returns the metadata of an asset, optionally as seen from
// utxo. A partial lookup (full=false) is served from the cache when possible;
// every remote fetch refreshes the cached partial metadata.
func (u *Usecase) GetAssetMetadata(ctx context.Context, assetId string, utxo string, full bool) (*types.AssetMetadata, error) {
	if assetId == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "asset id is required")
	}
	key := metadataCacheKey(assetId, utxo)
	if !full {
		if item := u.metadataCache.Get(key); item != nil {
			return partialMetadata(item.Value()), nil
		}
	}

	params := []string{assetId}
	if utxo != "" {
		params = append(params, utxo)
	}
	var metadata types.AssetMetadata
	if err := u.rpc.Get(ctx, "assetmetadata", params, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to get asset metadata")
	}

	partial := metadata.Partial()
	u.metadataCache.Set(key, partial, ttlcache.DefaultTTL)
	if !full {
		return partialMetadata(partial), nil
	}
	metadata.ApplyPartial(partial)
	return &metadata, nil
}

func partialMetadata(partial types.PartialAssetMetadata) *types.AssetMetadata {
	metadata := &types.AssetMetadata{PartialMetadataOnly: true}
	metadata.ApplyPartial(partial)
	return metadata
}
