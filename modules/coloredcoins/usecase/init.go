package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

// Init loads the wallet addresses, imports them into the backend and opens
// the event connection. Addresses registered later are imported as they appear.
func (u *Usecase) Init(ctx context.Context) error {
	importCtx := context.WithoutCancel(ctx)
	u.wallet.OnRegisterAddress(func(address string) {
		if len(u.registry.Add(address)) == 0 {
			return
		}
		if err := u.adapter.ImportAddresses(importCtx, []string{address}, false); err != nil {
			u.events.ReportError(errors.Wrapf(err, "failed to import address %s", address))
			return
		}
		logger.InfoContext(importCtx, "Imported new wallet address", slogx.String("address", address))
	})

	addresses, err := u.wallet.GetAddresses(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get wallet addresses")
	}
	u.registry.Add(addresses...)

	if err := u.adapter.ImportAddresses(ctx, u.registry.Addresses(), u.reindex); err != nil {
		err = errors.Wrap(err, "failed to import wallet addresses")
		u.events.ReportError(err)
		return err
	}
	if err := u.adapter.Connect(ctx); err != nil {
		return errors.Wrapf(err, "failed to connect %s backend", u.adapter.Backend())
	}

	logger.InfoContext(ctx, "Colored coins wallet initialized",
		slogx.Stringer("backend", u.adapter.Backend()),
		slogx.Int("addresses", len(addresses)),
		slogx.Bool("reindex", u.reindex),
	)
	return nil
}

// CurrentAddress returns the most recently registered wallet address.
func (u *Usecase) CurrentAddress(ctx context.Context) (string, error) {
	if address, ok := u.registry.Last(); ok {
		return address, nil
	}
	addresses, err := u.wallet.GetAddresses(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get wallet addresses")
	}
	u.registry.Add(addresses...)
	if address, ok := u.registry.Last(); ok {
		return address, nil
	}
	return "", errors.Wrap(errs.NotFound, "wallet has no address")
}
