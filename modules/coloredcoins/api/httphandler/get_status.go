package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getStatusResult struct {
	Network string `json:"network"`
	Backend string `json:"backend"`
	Status  string `json:"status"`
}

func (h *HttpHandler) GetStatus(ctx *fiber.Ctx) (err error) {
	resp := ok(getStatusResult{
		Network: h.network.String(),
		Backend: h.usecase.Backend().String(),
		Status:  h.usecase.Status().String(),
	})
	return errors.WithStack(ctx.JSON(resp))
}

type getCurrentAddressResult struct {
	Address string `json:"address"`
}

func (h *HttpHandler) GetCurrentAddress(ctx *fiber.Ctx) (err error) {
	address, err := h.usecase.CurrentAddress(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during CurrentAddress")
	}
	return errors.WithStack(ctx.JSON(ok(getCurrentAddressResult{Address: address})))
}
