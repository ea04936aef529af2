package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of secret attributes.
const RedactedValue = "[REDACTED]"

// secretKeys are wallet secrets that must never reach the logs.
var secretKeys = []string{"private_key", "privatekey", "wif", "wallet_keys", "walletkeys"}

type attrReplacer = func(groups []string, attr slog.Attr) slog.Attr

func attrReplacerChain(replacers ...attrReplacer) attrReplacer {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, replacer := range replacers {
			if replacer != nil {
				attr = replacer(groups, attr)
			}
		}
		return attr
	}
}

func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != slog.LevelKey {
		return attr
	}
	l, ok := attr.Value.Any().(slog.Level)
	if !ok || l < LevelCritical {
		return attr
	}
	str := func(base string, val slog.Level) string {
		if val == 0 {
			return base
		}
		return fmt.Sprintf("%s%+d", base, val)
	}
	switch {
	case l < LevelPanic:
		attr.Value = slog.StringValue(str("CRITICAL", l-LevelCritical))
	case l < LevelFatal:
		attr.Value = slog.StringValue(str("PANIC", l-LevelPanic))
	default:
		attr.Value = slog.StringValue(str("FATAL", l-LevelFatal))
	}
	return attr
}

func durationToMsAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindDuration {
		attr.Value = slog.Int64Value(attr.Value.Duration().Milliseconds())
	}
	return attr
}

// redactAttrReplacer masks the wallet secrets and the given keys, case-insensitively.
func redactAttrReplacer(keys ...string) attrReplacer {
	redacted := make(map[string]struct{}, len(secretKeys)+len(keys))
	for _, key := range append(keys, secretKeys...) {
		redacted[strings.ToLower(strings.TrimSpace(key))] = struct{}{}
	}
	return func(_ []string, attr slog.Attr) slog.Attr {
		if _, ok := redacted[strings.ToLower(attr.Key)]; ok {
			attr.Value = slog.StringValue(RedactedValue)
		}
		return attr
	}
}

// gcpAttrReplacer renames the default keys to the Cloud Logging ones.
func gcpAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 {
		return attr
	}
	switch attr.Key {
	case slog.MessageKey:
		attr.Key = "message"
	case slog.SourceKey:
		attr.Key = "logging.googleapis.com/sourceLocation"
	case slog.LevelKey:
		attr.Key = "severity"
		if lvl, ok := attr.Value.Any().(slog.Level); ok {
			attr.Value = slog.StringValue(gcpSeverity(lvl))
		}
	}
	return attr
}

// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#logseverity
func gcpSeverity(lvl slog.Level) string {
	switch {
	case lvl < slog.LevelInfo:
		return "DEBUG"
	case lvl < slog.LevelWarn:
		return "INFO"
	case lvl < slog.LevelError:
		return "WARNING"
	case lvl < LevelCritical:
		return "ERROR"
	case lvl < LevelPanic:
		return "CRITICAL"
	case lvl < LevelFatal:
		return "ALERT"
	default:
		return "EMERGENCY"
	}
}
