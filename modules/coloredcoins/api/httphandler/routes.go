package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/coloredcoins")

	r.Get("/status", h.GetStatus)
	r.Get("/address", h.GetCurrentAddress)
	r.Get("/utxos", h.GetUtxos)
	r.Get("/assets", h.GetAssets)
	r.Get("/assets/issued", h.GetIssuedAssets)
	r.Get("/assets/:assetId/metadata", h.GetAssetMetadata)
	r.Get("/assets/:assetId/stakeholders", h.GetStakeHolders)
	r.Post("/assets/:assetId/verify", h.VerifyIssuer)
	r.Get("/transactions", h.GetTransactions)
	r.Get("/addresses/:address/info", h.GetAddressInfo)
	r.Get("/metadata/:torrentHash", h.DownloadMetadata)

	r.Post("/issue", h.IssueAsset)
	r.Post("/send", h.SendAsset)
	r.Post("/burn", h.BurnAsset)
	r.Post("/build/:type", h.BuildTransaction)
	r.Post("/sign", h.Sign)
	r.Post("/transmit", h.Transmit)
	return nil
}
