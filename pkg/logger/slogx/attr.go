// Package slogx provides typed [slog.Attr] constructors and the attribute keys shared by the logger.
package slogx

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	ErrorKey           = "error"
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns an attribute under [ErrorKey], or an empty attribute for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Stringer returns an attribute whose value is formatted lazily.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.Any(key, value)
}

func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

func Bool(key string, v bool) slog.Attr {
	return slog.Bool(key, v)
}

func Duration(key string, v time.Duration) slog.Attr {
	return slog.Duration(key, v)
}
