package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/events"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/jellydator/ttlcache/v3"
)

const (
	defaultMetadataCacheTTL      = 10 * time.Minute
	defaultMetadataCacheCapacity = 10_000
)

type Dependencies struct {
	Adapter  adapters.Adapter
	Probe    adapters.ExplorerProbe
	Wallet   Wallet
	Builder  Builder
	Metadata MetadataService
	RPC      ColoredCoinsRPC
	Verifier IssuerVerifier
}

type Options struct {
	// Reindex asks the backend to rescan history for the initial address import.
	Reindex          bool
	Events           events.Config
	MetadataCacheTTL time.Duration
}

type Usecase struct {
	adapter  adapters.Adapter
	wallet   Wallet
	builder  Builder
	metadata MetadataService
	rpc      ColoredCoinsRPC
	verifier IssuerVerifier

	registry      *Registry
	events        *events.Router
	metadataCache *ttlcache.Cache[string, types.PartialAssetMetadata]
	reindex       bool
}

func New(ctx context.Context, deps Dependencies, opts Options) *Usecase {
	ttl := opts.MetadataCacheTTL
	if ttl <= 0 {
		ttl = defaultMetadataCacheTTL
	}
	registry := NewRegistry()
	return &Usecase{
		adapter:  deps.Adapter,
		wallet:   deps.Wallet,
		builder:  deps.Builder,
		metadata: deps.Metadata,
		rpc:      deps.RPC,
		verifier: deps.Verifier,
		registry: registry,
		events:   events.New(ctx, deps.Adapter, registry, deps.Probe, deps.Wallet, opts.Events),
		metadataCache: ttlcache.New(
			ttlcache.WithTTL[string, types.PartialAssetMetadata](ttl),
			ttlcache.WithCapacity[string, types.PartialAssetMetadata](defaultMetadataCacheCapacity),
		),
		reindex: opts.Reindex,
	}
}

// Events returns the transaction event surface of the wallet.
func (u *Usecase) Events() *events.Router {
	return u.events
}

func (u *Usecase) Registry() *Registry {
	return u.registry
}

func (u *Usecase) Backend() adapters.Backend {
	return u.adapter.Backend()
}

func (u *Usecase) Status() types.SyncStatus {
	return u.adapter.Status()
}

func (u *Usecase) Close() error {
	return u.adapter.Close()
}

// Shutdown releases the backend connections and drops the cached metadata.
func (u *Usecase) Shutdown() error {
	u.metadataCache.DeleteAll()
	if err := u.Close(); err != nil {
		return errors.Wrap(err, "failed to close adapter")
	}
	return nil
}
