package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) GetUtxos(ctx *fiber.Ctx) (err error) {
	utxos, err := h.usecase.GetUtxos(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetUtxos")
	}
	return errors.WithStack(ctx.JSON(ok(utxos)))
}

func (h *HttpHandler) GetAssets(ctx *fiber.Ctx) (err error) {
	assets, err := h.usecase.GetAssets(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetAssets")
	}
	return errors.WithStack(ctx.JSON(ok(assets)))
}
