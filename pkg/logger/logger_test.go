package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, cfg Config) func() []map[string]any {
	t.Helper()
	buf := new(bytes.Buffer)
	output = buf
	t.Cleanup(func() {
		output = os.Stdout
		require.NoError(t, Init(Config{}))
	})
	require.NoError(t, Init(cfg))

	return func() []map[string]any {
		var records []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var record map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &record), line)
			records = append(records, record)
		}
		return records
	}
}

func TestInitJSON(t *testing.T) {
	records := captureJSON(t, Config{Output: "json", RedactKeys: []string{"Token"}})

	ctx := WithContext(context.Background(), slogx.String("wif", "cVt4o7BGAig1UXywgGSmARhxMdzP5qvQsxKkSsc1XEkw3tDTQFpy"))
	DebugContext(ctx, "hidden")
	InfoContext(ctx, "issued asset",
		slogx.String("txid", "aa"),
		slogx.String("token", "secret"),
		slogx.String("private_key", "secret"),
		slogx.Duration("latency", 1500*time.Millisecond),
	)
	LogContext(ctx, LevelPanic, "panic level")

	got := records()
	require.Len(t, got, 2)
	assert.Equal(t, "issued asset", got[0]["msg"])
	assert.Equal(t, "INFO", got[0]["level"])
	assert.Equal(t, "aa", got[0]["txid"])
	assert.Equal(t, RedactedValue, got[0]["wif"])
	assert.Equal(t, RedactedValue, got[0]["token"])
	assert.Equal(t, RedactedValue, got[0]["private_key"])
	assert.EqualValues(t, 1500, got[0]["latency"])
	assert.Equal(t, "PANIC", got[1]["level"])
}

func TestInitDebugError(t *testing.T) {
	records := captureJSON(t, Config{Output: "json", Debug: true})

	DebugContext(context.Background(), "visible")
	ErrorContext(context.Background(), "broadcast failed", errors.WithStack(errs.BroadcastFailed))

	got := records()
	require.Len(t, got, 2)
	assert.Equal(t, "DEBUG", got[0]["level"])
	assert.Contains(t, got[0], "source")
	assert.Equal(t, errs.BroadcastFailed.Error(), got[1][slogx.ErrorKey])
	assert.Contains(t, got[1], slogx.ErrorVerboseKey)
	assert.Contains(t, got[1], slogx.ErrorStackTraceKey)
}

func TestInitGCP(t *testing.T) {
	records := captureJSON(t, Config{Output: "GCP"})

	WarnContext(context.Background(), "backend disconnected")

	got := records()
	require.Len(t, got, 1)
	assert.Equal(t, "WARNING", got[0]["severity"])
	assert.Equal(t, "backend disconnected", got[0]["message"])
	assert.Contains(t, got[0], "logging.googleapis.com/sourceLocation")
}

func TestInitUnknownOutput(t *testing.T) {
	err := Init(Config{Output: "xml"})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(nil)) //nolint:staticcheck
	ctx := WithContext(context.Background(), slogx.String("module", "coloredcoins"))
	assert.NotSame(t, current(), FromContext(ctx))
	assert.Same(t, FromContext(ctx), FromContext(ctx))
}
