package httphandler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/btcutils"
	"github.com/samber/lo"
)

// Usecase is the colored coins wallet served by the handler.
type Usecase interface {
	Backend() adapters.Backend
	Status() types.SyncStatus
	CurrentAddress(ctx context.Context) (string, error)

	GetUtxos(ctx context.Context) ([]*types.UTXO, error)
	GetAssets(ctx context.Context) ([]*types.WalletAsset, error)
	GetTransactions(ctx context.Context, addresses []string) ([]*types.Transaction, error)
	GetIssuedAssets(ctx context.Context, transactions []*types.Transaction) ([]*types.IssuedAsset, error)
	GetAssetMetadata(ctx context.Context, assetId string, utxo string, full bool) (*types.AssetMetadata, error)
	GetAddressInfo(ctx context.Context, address string) (*types.AddressInfo, error)
	GetStakeHolders(ctx context.Context, assetId string, confirmations int) (*types.StakeHolders, error)
	VerifyIssuer(ctx context.Context, assetId string, claim string) (json.RawMessage, error)
	DownloadMetadata(ctx context.Context, torrentHash string) (*types.MetadataDocument, error)

	IssueAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error)
	SendAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error)
	BurnAsset(ctx context.Context, req *types.AssetOperationRequest) (*types.AssetOperationResult, error)
	BuildTransaction(ctx context.Context, kind types.OperationKind, req *types.AssetOperationRequest) (*types.BuiltTransaction, error)
	Sign(ctx context.Context, txHex string) (string, error)
	Transmit(ctx context.Context, signedTxHex string) (*types.TransmitResult, error)
}

type HttpHandler struct {
	usecase Usecase
	network common.Network
}

func New(network common.Network, usecase Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		network: network,
	}
}

func ok[T any](result T) common.HttpResponse[T] {
	return common.HttpResponse[T]{Result: &result}
}

// isValidAddress reports whether address is a valid address of the handler's network.
func (h *HttpHandler) isValidAddress(address string) bool {
	return btcutils.IsAddress(address, h.network.ChainParams())
}

func splitList(s string) []string {
	items := lo.Map(strings.Split(s, ","), func(item string, _ int) string { return strings.TrimSpace(item) })
	return lo.Uniq(lo.Filter(items, func(item string, _ int) bool { return item != "" }))
}
