package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gaze-network/coloredcoins-network/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // Disable logs of level INFO
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
	SkipPaths            []string `mapstructure:"skip_paths"` // Paths never logged on success, e.g. the health check
}

// New logs every completed request, at level ERROR for failed ones.
func New(config Config) fiber.Handler {
	hiddenRequestHeaders := lo.SliceToMap(config.HiddenRequestHeaders, func(header string) (string, struct{}) {
		return strings.TrimSpace(strings.ToLower(header)), struct{}{}
	})
	hiddenRequestHeaders[strings.ToLower(fiber.HeaderAuthorization)] = struct{}{}
	skipPaths := lo.SliceToMap(config.SkipPaths, func(path string) (string, struct{}) {
		return path, struct{}{}
	})

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		attrs := []slog.Attr{
			slogx.String("event", "api_request"),
			slogx.Int64("latency", latency.Milliseconds()),
			slogx.String("latency_human", latency.String()),
		}
		if err != nil || status >= http.StatusInternalServerError {
			level = slog.LevelError
			if err == nil {
				err = fiber.NewError(status)
			}
			attrs = append(attrs, slogx.Error(err))
		}
		if level == slog.LevelInfo {
			if _, skip := skipPaths[c.Path()]; skip || config.Disable {
				return errors.WithStack(err)
			}
		}

		request := []any{
			slogx.String("method", c.Method()),
			slogx.String("host", c.Hostname()),
			slogx.String("path", c.Path()),
			slogx.String("route", c.Route().Path),
			slogx.String("ip", requestcontext.GetClientIP(c.UserContext())),
			slogx.String("remote_ip", c.Context().RemoteIP().String()),
			slogx.Strings("x_forwarded_for", c.IPs()),
			slogx.String("user_agent", string(c.Context().UserAgent())),
			slogx.Any("params", c.AllParams()),
			slogx.Int("length", len(c.Body())),
		}
		if config.WithRequestQuery {
			request = append(request, slogx.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			var headers []any
			for k, v := range c.GetReqHeaders() {
				if _, hidden := hiddenRequestHeaders[strings.ToLower(k)]; !hidden {
					headers = append(headers, slogx.Any(k, v))
				}
			}
			request = append(request, slog.Group("header", headers...))
		}

		attrs = append(attrs,
			slog.Group("request", request...),
			slog.Group("response",
				slogx.Int("status", status),
				slogx.Int("length", len(c.Response().Body())),
			),
		)
		logger.LogAttrs(c.UserContext(), level, "Request Completed", attrs...)

		return errors.WithStack(err)
	}
}
