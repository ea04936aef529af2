package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gofiber/fiber/v2"
)

type getAssetMetadataRequest struct {
	AssetId string `params:"assetId"`
	Utxo    string `query:"utxo"`
	Full    bool   `query:"full"`
}

func (r getAssetMetadataRequest) Validate() error {
	if r.Utxo == "" {
		return nil
	}
	if _, err := types.ParseOutPointRef(r.Utxo); err != nil {
		return errs.NewPublicError("'utxo' must be in <txid>:<index> format")
	}
	return nil
}

func (h *HttpHandler) GetAssetMetadata(ctx *fiber.Ctx) (err error) {
	var req getAssetMetadataRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	metadata, err := h.usecase.GetAssetMetadata(ctx.UserContext(), req.AssetId, req.Utxo, req.Full)
	if err != nil {
		return errors.Wrapf(err, "error during GetAssetMetadata, asset: %s", req.AssetId)
	}
	return errors.WithStack(ctx.JSON(ok(metadata)))
}

func (h *HttpHandler) DownloadMetadata(ctx *fiber.Ctx) (err error) {
	torrentHash := ctx.Params("torrentHash")
	metadata, err := h.usecase.DownloadMetadata(ctx.UserContext(), torrentHash)
	if err != nil {
		return errors.Wrapf(err, "error during DownloadMetadata, torrent hash: %s", torrentHash)
	}
	return errors.WithStack(ctx.JSON(ok(metadata)))
}
