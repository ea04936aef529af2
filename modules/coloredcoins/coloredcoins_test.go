package coloredcoins

import (
	"testing"

	ccconfig "github.com/gaze-network/coloredcoins-network/modules/coloredcoins/config"
	"github.com/stretchr/testify/assert"
)

func TestExplorerEventsURL(t *testing.T) {
	testCases := []struct {
		conf     ccconfig.ExplorerConfig
		expected string
	}{
		{conf: ccconfig.ExplorerConfig{Host: "https://explorer.example"}, expected: "wss://explorer.example/connection/websocket"},
		{conf: ccconfig.ExplorerConfig{Host: "http://localhost:8000/api/?x=1"}, expected: "ws://localhost:8000/api/connection/websocket"},
		{conf: ccconfig.ExplorerConfig{Host: "http://h", EventsURL: "ws://events"}, expected: "ws://events"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, explorerEventsURL(tc.conf))
	}
}
