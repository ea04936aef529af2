package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
)

// resolveInputs fills op.Utxos from the utxo references and objects of the request.
func (u *Usecase) resolveInputs(ctx context.Context, kind types.OperationKind, op *types.AssetOperationRequest) error {
	if kind == types.OperationIssue {
		if op.IssueAddress == "" {
			address, err := u.CurrentAddress(ctx)
			if err != nil {
				if errors.Is(err, errs.NotFound) {
					return errors.Wrap(errs.MissingInputSpec, "issue requires an issue address")
				}
				return errors.WithStack(err)
			}
			op.IssueAddress = address
		}
		utxos, err := u.adapter.GetAddressesUtxos(ctx, []string{op.IssueAddress})
		if err != nil {
			return errors.Wrap(err, "failed to get issue address utxos")
		}
		op.Utxos = utxos
		return nil
	}

	switch {
	case len(op.From) > 0:
		utxos, err := u.adapter.GetAddressesUtxos(ctx, op.From)
		if err != nil {
			return errors.Wrap(err, "failed to get source address utxos")
		}
		op.Utxos = utxos
		op.From = nil
	case len(op.SendUtxo) > 0:
		utxos, err := u.resolveUtxoSpecs(ctx, op.SendUtxo)
		if err != nil {
			return errors.WithStack(err)
		}
		op.Utxos = utxos
		op.SendUtxo = nil
	default:
		return errors.WithStack(errs.MissingInputSpec)
	}
	return nil
}

// resolveUtxoSpecs returns the object specs first, then the referenced
// outputs fetched from the backend, each group in request order.
func (u *Usecase) resolveUtxoSpecs(ctx context.Context, specs []types.UtxoSpec) ([]*types.UTXO, error) {
	utxos := make([]*types.UTXO, 0, len(specs))
	refs := make([]types.OutPointRef, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.UTXO != nil:
			utxos = append(utxos, spec.UTXO)
		case spec.Ref != nil:
			refs = append(refs, *spec.Ref)
		}
	}
	if len(refs) == 0 {
		return utxos, nil
	}

	resolved, err := u.adapter.GetUtxos(ctx, refs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve utxo references")
	}
	byRef := make(map[types.OutPointRef]*types.UTXO, len(resolved))
	for _, utxo := range resolved {
		byRef[utxo.OutPoint()] = utxo
	}
	for _, ref := range refs {
		utxo, ok := byRef[ref]
		if !ok {
			return nil, errors.Wrapf(errs.NotFound, "utxo %s not found", ref)
		}
		utxos = append(utxos, utxo)
	}
	return utxos, nil
}
