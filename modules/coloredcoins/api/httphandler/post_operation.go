package httphandler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) IssueAsset(ctx *fiber.Ctx) (err error) {
	return h.operation(ctx, types.OperationIssue, h.usecase.IssueAsset)
}

func (h *HttpHandler) SendAsset(ctx *fiber.Ctx) (err error) {
	return h.operation(ctx, types.OperationSend, h.usecase.SendAsset)
}

func (h *HttpHandler) BurnAsset(ctx *fiber.Ctx) (err error) {
	return h.operation(ctx, types.OperationBurn, h.usecase.BurnAsset)
}

func (h *HttpHandler) operation(ctx *fiber.Ctx, kind types.OperationKind, run func(context.Context, *types.AssetOperationRequest) (*types.AssetOperationResult, error)) error {
	req, err := h.parseOperationRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := run(ctx.UserContext(), req)
	if err != nil {
		return errors.Wrapf(err, "error during %s asset", kind)
	}
	return errors.WithStack(ctx.JSON(ok(result)))
}

func (h *HttpHandler) parseOperationRequest(ctx *fiber.Ctx) (*types.AssetOperationRequest, error) {
	var req types.AssetOperationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, errs.WithPublicMessage(err, "invalid request body")
	}
	if req.IssueAddress != "" && !h.isValidAddress(req.IssueAddress) {
		return nil, errs.NewPublicError("'issueAddress' is not a valid address")
	}
	if err := h.validateAddresses(req.From); err != nil {
		return nil, errors.WithStack(err)
	}
	return &req, nil
}

func (h *HttpHandler) BuildTransaction(ctx *fiber.Ctx) (err error) {
	kind, err := types.ParseOperationKind(ctx.Params("type"))
	if err != nil {
		return errs.WithPublicMessage(err, "")
	}
	req, err := h.parseOperationRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	built, err := h.usecase.BuildTransaction(ctx.UserContext(), kind, req)
	if err != nil {
		return errors.Wrapf(err, "error during BuildTransaction, type: %s", kind)
	}
	return errors.WithStack(ctx.JSON(ok(built)))
}

type signRequest struct {
	TxHex string `json:"txHex"`
}

type signResult struct {
	SignedTxHex string `json:"signedTxHex"`
}

func (h *HttpHandler) Sign(ctx *fiber.Ctx) (err error) {
	var req signRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid request body")
	}
	if req.TxHex == "" {
		return errs.NewPublicError("'txHex' is required")
	}

	signed, err := h.usecase.Sign(ctx.UserContext(), req.TxHex)
	if err != nil {
		return errors.Wrap(err, "error during Sign")
	}
	return errors.WithStack(ctx.JSON(ok(signResult{SignedTxHex: signed})))
}

type transmitRequest struct {
	SignedTxHex string `json:"signedTxHex"`
}

func (h *HttpHandler) Transmit(ctx *fiber.Ctx) (err error) {
	var req transmitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid request body")
	}
	if req.SignedTxHex == "" {
		return errs.NewPublicError("'signedTxHex' is required")
	}

	result, err := h.usecase.Transmit(ctx.UserContext(), req.SignedTxHex)
	if err != nil {
		return errors.Wrap(err, "error during Transmit")
	}
	return errors.WithStack(ctx.JSON(ok(result)))
}
