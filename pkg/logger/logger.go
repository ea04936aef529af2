// nolint: sloglint
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
)

const (
	// DefaultLevel is the minimum reporting level before Init.
	DefaultLevel = slog.LevelDebug

	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

var (
	mu  sync.RWMutex
	lvl = new(slog.LevelVar)

	// output of the handlers created by Init.
	output io.Writer = os.Stdout

	// top-level logger
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: levelAttrReplacer,
	}))
)

func init() {
	lvl.Set(DefaultLevel)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// Config is the logger configuration.
type Config struct {
	// Output is the log format, one of `text` (default), `json` or `gcp`
	// (JSON with Cloud Logging keys and severities).
	Output string `mapstructure:"output"`

	// Debug enables the debug level, source locations and verbose errors.
	Debug bool `mapstructure:"debug"`

	// RedactKeys are extra attribute keys whose values are never printed.
	RedactKeys []string `mapstructure:"redact_keys"`
}

// Init replaces the global logger and the slog default logger.
func Init(cfg Config) error {
	options := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: attrReplacerChain(
			levelAttrReplacer,
			durationToMsAttrReplacer,
			redactAttrReplacer(cfg.RedactKeys...),
		),
	}
	var middlewares []middleware
	if cfg.Debug {
		options.AddSource = true
		middlewares = append(middlewares, middlewareError())
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "text":
		handler = slog.NewTextHandler(output, options)
	case "json":
		handler = slog.NewJSONHandler(output, options)
	case "gcp":
		options.AddSource = true
		options.ReplaceAttr = attrReplacerChain(gcpAttrReplacer, options.ReplaceAttr)
		handler = slog.NewJSONHandler(output, options)
	default:
		return errors.Wrapf(errs.InvalidArgument, "unknown logger output %q", cfg.Output)
	}

	lvl.Set(slog.LevelInfo)
	if cfg.Debug {
		lvl.Set(slog.LevelDebug)
	}

	l := slog.New(newChainHandlers(handler, middlewares...))
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
	return nil
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel sets the minimum reporting level and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns a Logger that includes the given attributes in each output operation.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// WithGroup returns a Logger that qualifies the keys of its attributes with group.
func WithGroup(group string) *slog.Logger {
	return current().WithGroup(group)
}

func Debug(msg string, args ...any) {
	log(context.Background(), current(), slog.LevelDebug, msg, args...)
}

func Info(msg string, args ...any) {
	log(context.Background(), current(), slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	log(context.Background(), current(), slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	log(context.Background(), current(), slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	log(context.Background(), current(), LevelPanic, msg, args...)
	panic(msg)
}

// Fatal logs at [LevelFatal] followed by a call to [os.Exit](1).
func Fatal(msg string, args ...any) {
	log(context.Background(), current(), LevelFatal, msg, args...)
	os.Exit(1)
}

// LogAttrs is a more efficient version of LogContext that accepts only Attrs.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := FromContext(ctx)
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC(1))
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// log must be called directly by an exported logging function, the caller
// depth of the source location is fixed.
func log(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC(2))
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// callerPC returns the pc of the caller depth frames above the function calling callerPC.
func callerPC(depth int) uintptr {
	var pcs [1]uintptr
	// skip [runtime.Callers, callerPC]
	runtime.Callers(2+depth, pcs[:])
	return pcs[0]
}
