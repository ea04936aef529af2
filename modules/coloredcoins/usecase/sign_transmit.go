package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"golang.org/x/sync/errgroup"
)

// signAndTransmit signs txHex while the referenced metadata is being seeded,
// then broadcasts once both are done.
func (u *Usecase) signAndTransmit(ctx context.Context, op *types.AssetOperationRequest, txHex string) (signed string, txid string, err error) {
	group, groupCtx := errgroup.WithContext(ctx)
	if op.HasExternalMetadata() && u.metadata != nil {
		group.Go(func() error {
			return errors.Wrap(u.metadata.Seed(groupCtx, op.TorrentHash), "failed to seed metadata")
		})
	}
	group.Go(func() error {
		var err error
		signed, err = u.Sign(groupCtx, txHex)
		return errors.WithStack(err)
	})
	if err := group.Wait(); err != nil {
		return "", "", errors.WithStack(err)
	}

	result, err := u.Transmit(ctx, signed)
	if err != nil {
		return "", "", errors.WithStack(err)
	}
	return signed, result.Txid, nil
}
