package usecase

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
)

func (u *Usecase) GetAddressInfo(ctx context.Context, address string) (*types.AddressInfo, error) {
	var info types.AddressInfo
	if err := u.rpc.Get(ctx, "addressinfo", []string{address}, &info); err != nil {
		return nil, errors.Wrap(err, "failed to get address info")
	}
	return &info, nil
}

// GetStakeHolders returns the holders of an asset with at least confirmations.
func (u *Usecase) GetStakeHolders(ctx context.Context, assetId string, confirmations int) (*types.StakeHolders, error) {
	if confirmations < 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "confirmations must be non-negative")
	}
	var holders types.StakeHolders
	if err := u.rpc.Get(ctx, "stakeholders", []string{assetId, strconv.Itoa(confirmations)}, &holders); err != nil {
		return nil, errors.Wrap(err, "failed to get stake holders")
	}
	return &holders, nil
}

func (u *Usecase) VerifyIssuer(ctx context.Context, assetId string, claim string) (json.RawMessage, error) {
	if u.verifier == nil {
		return nil, errors.Wrap(errs.Unsupported, "issuer verifier is not configured")
	}
	verdict, err := u.verifier.VerifyIssuer(ctx, assetId, claim)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify issuer")
	}
	return verdict, nil
}
