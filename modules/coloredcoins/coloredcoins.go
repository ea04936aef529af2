package coloredcoins

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/internal/config"
	"github.com/gaze-network/coloredcoins-network/modules/coloredcoins/api/httphandler"
	ccconfig "github.com/gaze-network/coloredcoins-network/modules/coloredcoins/config"
	"github.com/gaze-network/coloredcoins-network/modules/coloredcoins/usecase"
	"github.com/gaze-network/coloredcoins-network/pkg/ccrpc"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gaze-network/coloredcoins-network/pkg/metadataserver"
	"github.com/gaze-network/coloredcoins-network/pkg/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

// New wires the colored coins wallet, initializes it and mounts its API handlers.
func New(injector do.Injector) (*usecase.Usecase, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	ccConf := conf.Modules.ColoredCoins.WithDefaults(conf.Network)
	ctx = logger.WithContext(ctx, slogx.Stringer("module", common.ModuleColoredCoins), slogx.String("backend", ccConf.Backend))

	backend := strings.ToLower(ccConf.Backend)

	// The explorer is the reference chain of every backend, its events are
	// only consumed when it is the backend itself.
	var pubsub adapters.PubSub
	if backend == ccconfig.BackendExplorer {
		pubsub = adapters.NewCentrifugePubSub(explorerEventsURL(ccConf.Explorer))
	}
	explorer, err := adapters.NewExplorerAdapter(adapters.ExplorerConfig{
		Host:    ccConf.Explorer.Host,
		Timeout: ccConf.RequestTimeout,
		Debug:   ccConf.Debug,
	}, pubsub)
	if err != nil {
		return nil, errors.Wrap(err, "can't create explorer adapter")
	}

	var adapter adapters.Adapter
	switch backend {
	case ccconfig.BackendExplorer:
		adapter = explorer
	case ccconfig.BackendFullNode:
		fullNode, err := adapters.NewFullNodeAdapter(adapters.FullNodeConfig{
			Host:      ccConf.FullNode.Host,
			EventsURL: ccConf.FullNode.EventsURL,
			Probe:     explorer,
			Timeout:   ccConf.RequestTimeout,
			Debug:     ccConf.Debug,
		})
		if err != nil {
			return nil, errors.Wrap(err, "can't create full node adapter")
		}
		adapter = fullNode
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q backend is not supported", ccConf.Backend)
	}

	walletKeys := lo.Filter(ccConf.WalletKeys, func(key string, _ int) bool { return strings.TrimSpace(key) != "" })
	userWallet, err := wallet.New(conf.Network.ChainParams(), walletKeys...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid wallet keys")
	}

	rpc, err := ccrpc.New(ccrpc.Config{
		Host:    ccConf.ColoredCoinsHost,
		Timeout: ccConf.RequestTimeout,
		Debug:   ccConf.Debug,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	deps := usecase.Dependencies{
		Adapter: adapter,
		Probe:   explorer,
		Wallet:  userWallet,
		Builder: rpc,
		RPC:     rpc,
	}
	if ccConf.MetadataServerHost != "" {
		metadata, err := metadataserver.New(metadataserver.Config{Host: ccConf.MetadataServerHost, Debug: ccConf.Debug})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		deps.Metadata = metadata
	}
	if ccConf.VerifierURL != "" {
		verifier, err := ccrpc.NewVerifier(ccConf.VerifierURL, ccConf.Debug)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		deps.Verifier = verifier
	}

	coloredCoins := usecase.New(ctx, deps, usecase.Options{
		Reindex:          ccConf.Reindex,
		Events:           ccConf.Events,
		MetadataCacheTTL: ccConf.MetadataCacheTTL,
	})
	if err := coloredCoins.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "can't initialize colored coins wallet")
	}

	// Mount API
	for _, handler := range lo.Uniq(ccConf.APIHandlers) {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			if err := httphandler.New(conf.Network, coloredCoins).Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount colored coins API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	return coloredCoins, nil
}

// explorerEventsURL returns the configured pub/sub endpoint or derives
// ws(s)://<host>/connection/websocket from the explorer host.
func explorerEventsURL(conf ccconfig.ExplorerConfig) string {
	if conf.EventsURL != "" {
		return conf.EventsURL
	}
	u, err := url.Parse(conf.Host)
	if err != nil {
		return conf.Host
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/connection/websocket"
	u.RawQuery = ""
	return u.String()
}
