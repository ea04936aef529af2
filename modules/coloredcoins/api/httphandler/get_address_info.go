package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) GetAddressInfo(ctx *fiber.Ctx) (err error) {
	address := ctx.Params("address")
	if !h.isValidAddress(address) {
		return errs.NewPublicError("'address' is not a valid address")
	}

	info, err := h.usecase.GetAddressInfo(ctx.UserContext(), address)
	if err != nil {
		return errors.Wrapf(err, "error during GetAddressInfo, address: %s", address)
	}
	return errors.WithStack(ctx.JSON(ok(info)))
}

type getStakeHoldersRequest struct {
	AssetId       string `params:"assetId"`
	Confirmations int    `query:"confirmations"`
}

func (r getStakeHoldersRequest) Validate() error {
	if r.Confirmations < 0 {
		return errs.NewPublicError("'confirmations' must be non-negative")
	}
	return nil
}

func (h *HttpHandler) GetStakeHolders(ctx *fiber.Ctx) (err error) {
	var req getStakeHoldersRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	holders, err := h.usecase.GetStakeHolders(ctx.UserContext(), req.AssetId, req.Confirmations)
	if err != nil {
		return errors.Wrapf(err, "error during GetStakeHolders, asset: %s", req.AssetId)
	}
	return errors.WithStack(ctx.JSON(ok(holders)))
}

// VerifyIssuer forwards the request body as the issuer claim of the asset.
func (h *HttpHandler) VerifyIssuer(ctx *fiber.Ctx) (err error) {
	assetId := ctx.Params("assetId")
	claim := ctx.Body()
	if !json.Valid(claim) {
		return errs.NewPublicError("request body must be a JSON issuer claim")
	}

	result, err := h.usecase.VerifyIssuer(ctx.UserContext(), assetId, string(claim))
	if err != nil {
		return errors.Wrapf(err, "error during VerifyIssuer, asset: %s", assetId)
	}
	return errors.WithStack(ctx.JSON(ok(result)))
}
