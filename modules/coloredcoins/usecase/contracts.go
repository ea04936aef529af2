package usecase

import (
	"context"
	"encoding/json"

	"github.com/gaze-network/coloredcoins-network/core/types"
)

// Wallet owns the signing keys and the address set of the user.
type Wallet interface {
	GetAddresses(ctx context.Context) ([]string, error)
	Sign(ctx context.Context, txHex string) (string, error)
	Discover()
	OnRegisterAddress(fn func(address string))
}

// Builder builds unsigned colored transactions.
type Builder interface {
	BuildIssue(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error)
	BuildSend(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error)
	BuildBurn(ctx context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error)
}

// MetadataService stores metadata documents referenced by issuances and transfers.
type MetadataService interface {
	Upload(ctx context.Context, doc *types.MetadataDocument) (*types.MetadataRef, error)
	Seed(ctx context.Context, torrentHash string) error
	Download(ctx context.Context, torrentHash string) (*types.MetadataDocument, error)
}

type ColoredCoinsRPC interface {
	Get(ctx context.Context, method string, params []string, out any) error
}

type IssuerVerifier interface {
	VerifyIssuer(ctx context.Context, assetId string, claim string) (json.RawMessage, error)
}
