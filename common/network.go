package common

import "github.com/btcsuite/btcd/chaincfg"

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
}

var chainParams = map[Network]*chaincfg.Params{
	NetworkMainnet: &chaincfg.MainNetParams,
	NetworkTestnet: &chaincfg.TestNet3Params,
}

// Hosts is the set of default service endpoints for a network.
type Hosts struct {
	ColoredCoins string
	Explorer     string
	Verifier     string
}

var defaultHosts = map[Network]Hosts{
	NetworkMainnet: {
		ColoredCoins: "https://api.coloredcoins.org/v3",
		Explorer:     "https://explorer.coloredcoins.org",
		Verifier:     "https://www.coloredcoins.org/explorer/verify/api.php",
	},
	NetworkTestnet: {
		ColoredCoins: "https://testnet.api.coloredcoins.org/v3",
		Explorer:     "https://testnet.explorer.coloredcoins.org",
		Verifier:     "https://www.coloredcoins.org/explorer/verify/api.php",
	},
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

func (n Network) ChainParams() *chaincfg.Params {
	return chainParams[n]
}

// DefaultHosts returns the public service endpoints of the network.
// Unsupported networks fall back to mainnet hosts.
func (n Network) DefaultHosts() Hosts {
	if hosts, ok := defaultHosts[n]; ok {
		return hosts
	}
	return defaultHosts[NetworkMainnet]
}

func (n Network) String() string {
	return string(n)
}
