package config

import (
	"time"

	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/core/events"
)

const (
	BackendExplorer = "explorer"
	BackendFullNode = "fullnode"
)

type Config struct {
	Backend string `mapstructure:"backend"` // Chain backend e.g. `explorer` | `fullnode`

	ColoredCoinsHost   string         `mapstructure:"coloredcoins_host"`
	Explorer           ExplorerConfig `mapstructure:"explorer"`
	FullNode           FullNodeConfig `mapstructure:"full_node"`
	MetadataServerHost string         `mapstructure:"metadata_server_host"`
	VerifierURL        string         `mapstructure:"verifier_url"`

	// WalletKeys are WIF encoded private keys of the wallet.
	WalletKeys []string `mapstructure:"wallet_keys"`
	Reindex    bool     `mapstructure:"reindex"`

	Events           events.Config `mapstructure:"events"`
	MetadataCacheTTL time.Duration `mapstructure:"metadata_cache_ttl"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	APIHandlers      []string      `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
	Debug            bool          `mapstructure:"debug"`
}

type ExplorerConfig struct {
	Host      string `mapstructure:"host"`
	EventsURL string `mapstructure:"events_url"` // centrifuge websocket endpoint
}

type FullNodeConfig struct {
	Host      string `mapstructure:"host"`
	EventsURL string `mapstructure:"events_url"`
}

// WithDefaults fills the empty hosts with the public endpoints of network.
func (c Config) WithDefaults(network common.Network) Config {
	hosts := network.DefaultHosts()
	if c.ColoredCoinsHost == "" {
		c.ColoredCoinsHost = hosts.ColoredCoins
	}
	if c.Explorer.Host == "" {
		c.Explorer.Host = hosts.Explorer
	}
	if c.VerifierURL == "" {
		c.VerifierURL = hosts.Verifier
	}
	if c.Backend == "" {
		c.Backend = BackendExplorer
		if c.FullNode.Host != "" {
			c.Backend = BackendFullNode
		}
	}
	return c
}
