package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/samber/lo"
)

func (u *Usecase) IssueAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	return u.runOperation(ctx, types.OperationIssue, req)
}

func (u *Usecase) SendAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	return u.runOperation(ctx, types.OperationSend, req)
}

func (u *Usecase) BurnAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	return u.runOperation(ctx, types.OperationBurn, req)
}

// runOperation resolves inputs, externalizes metadata, builds, signs and
// optionally broadcasts. The caller's request is never modified.
func (u *Usecase) runOperation(ctx context.Context, kind types.OperationKind, req *types.AssetOperationRequest) (*types.AssetOperationResult, error) {
	if req == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "request is required")
	}
	ctx = logger.WithContext(ctx, slogx.Stringer("operation", kind))
	op := *req

	if err := u.resolveInputs(ctx, kind, &op); err != nil {
		return nil, errors.WithStack(err)
	}

	privateKey, err := u.externalizeMetadata(ctx, &op)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	built, err := u.BuildTransaction(ctx, kind, &op)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !op.ShouldTransmit() {
		signed, err := u.Sign(ctx, built.TxHex)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &types.AssetOperationResult{SignedTxHex: signed, PrivateKey: privateKey}, nil
	}

	signed, txid, err := u.signAndTransmit(ctx, &op, built.TxHex)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := &types.AssetOperationResult{
		Txid:                 txid,
		TxHex:                signed,
		AssetId:              built.AssetId,
		ColoredOutputIndexes: built.ColoredOutputIndexes,
		MultisigOutputs:      built.MultisigOutputs,
		PrivateKey:           privateKey,
	}
	if kind == types.OperationIssue {
		result.IssueAddress = op.IssueAddress
		result.ReceivingAddresses = lo.Ternary(op.Transfer == nil, []types.Transfer{}, op.Transfer)
	}
	logger.InfoContext(ctx, "Asset operation broadcast", slogx.String("txid", txid), slogx.String("asset_id", built.AssetId))
	return result, nil
}

// BuildTransaction builds the unsigned transaction of kind. Previous output
// injection is always enabled and change splitting defaults to on.
func (u *Usecase) BuildTransaction(ctx context.Context, kind types.OperationKind, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	if req == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "request is required")
	}
	args := *req
	flags := types.BuildFlags{InjectPreviousOutput: true, SplitChange: lo.ToPtr(true)}
	if req.Flags != nil && req.Flags.SplitChange != nil {
		flags.SplitChange = lo.ToPtr(*req.Flags.SplitChange)
	}
	args.Flags = &flags

	var (
		built *types.BuiltTransaction
		err   error
	)
	switch kind {
	case types.OperationIssue:
		built, err = u.builder.BuildIssue(ctx, &args)
	case types.OperationSend:
		built, err = u.builder.BuildSend(ctx, &args)
	case types.OperationBurn:
		built, err = u.builder.BuildBurn(ctx, &args)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "unknown operation %q", kind)
	}
	if err != nil {
		return nil, errs.WithKind(errors.Wrapf(err, "failed to build %s transaction", kind), errs.BuildFailed)
	}
	if built == nil || built.TxHex == "" {
		return nil, errors.Wrapf(errs.BuildFailed, "wrong builder response for %s", kind)
	}
	return built, nil
}

func (u *Usecase) Sign(ctx context.Context, txHex string) (string, error) {
	signed, err := u.wallet.Sign(ctx, txHex)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign transaction")
	}
	return signed, nil
}

// Transmit broadcasts a signed transaction through the backend.
func (u *Usecase) Transmit(ctx context.Context, signedTxHex string) (*types.TransmitResult, error) {
	result, err := u.adapter.Transmit(ctx, signedTxHex)
	if err != nil {
		return nil, errs.WithKind(errors.Wrap(err, "failed to broadcast transaction"), errs.BroadcastFailed)
	}
	return result, nil
}
