package config

import (
	"testing"

	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	conf := Config{}.WithDefaults(common.NetworkTestnet)
	hosts := common.NetworkTestnet.DefaultHosts()
	assert.Equal(t, hosts.ColoredCoins, conf.ColoredCoinsHost)
	assert.Equal(t, hosts.Explorer, conf.Explorer.Host)
	assert.Equal(t, hosts.Verifier, conf.VerifierURL)
	assert.Equal(t, BackendExplorer, conf.Backend)

	conf = Config{
		ColoredCoinsHost: "http://cc.local",
		FullNode:         FullNodeConfig{Host: "http://node.local"},
	}.WithDefaults(common.NetworkMainnet)
	assert.Equal(t, "http://cc.local", conf.ColoredCoinsHost)
	assert.Equal(t, BackendFullNode, conf.Backend)
}
