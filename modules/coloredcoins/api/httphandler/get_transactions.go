package httphandler

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getTransactionsRequest struct {
	Addresses string `query:"addresses"` // comma separated, defaults to the wallet addresses
}

func (r getTransactionsRequest) addresses() []string {
	if r.Addresses == "" {
		return nil
	}
	return splitList(r.Addresses)
}

func (h *HttpHandler) validateAddresses(addresses []string) error {
	var errList []error
	for _, address := range addresses {
		if !h.isValidAddress(address) {
			errList = append(errList, errors.Errorf("%q is not a valid %s address", address, h.network))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) GetTransactions(ctx *fiber.Ctx) (err error) {
	var req getTransactionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	addresses := req.addresses()
	if err := h.validateAddresses(addresses); err != nil {
		return errors.WithStack(err)
	}

	transactions, err := h.usecase.GetTransactions(ctx.UserContext(), addresses)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("error during GetTransactions, addresses: %v", addresses))
	}
	return errors.WithStack(ctx.JSON(ok(transactions)))
}

func (h *HttpHandler) GetIssuedAssets(ctx *fiber.Ctx) (err error) {
	assets, err := h.usecase.GetIssuedAssets(ctx.UserContext(), nil)
	if err != nil {
		return errors.Wrap(err, "error during GetIssuedAssets")
	}
	return errors.WithStack(ctx.JSON(ok(assets)))
}
