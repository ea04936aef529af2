package requestcontext

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedHeader is a header carrying the client IP set by a trusted proxy
	// (e.g. X-Real-IP, CF-Connecting-IP). It takes precedence over X-Forwarded-For.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// TrustedProxiesIP are the CIDR ranges of every proxy between the client
	// and the server. The client IP is the last X-Forwarded-For entry outside them.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// EnableRejectMalformedRequest rejects proxied requests whose client IP
	// can't be trusted with 403 Forbidden.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// GetClientIP returns the client IP of ctx, or an empty string.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP resolves the client IP with X-Forwarded-For spoofing prevention.
// Invalid trusted proxy ranges panic on setup.
func WithClientIP(config WithClientIPConfig) Option {
	trusted, err := parsePrefixes(config.TrustedProxiesIP)
	if err != nil {
		logger.Panic("Invalid trusted proxies config", slogx.Error(err))
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		withIP := func(ip string) (context.Context, error) {
			return context.WithValue(ctx, clientIPKey{}, ip), nil
		}

		if config.TrustedHeader != "" {
			if ip, err := netip.ParseAddr(c.Get(config.TrustedHeader)); err == nil {
				return withIP(ip.String())
			}
		}

		forwarded := c.IPs()
		if len(forwarded) == 0 {
			return withIP(c.IP())
		}

		if len(trusted) > 0 {
			for i := len(forwarded) - 1; i >= 0; i-- {
				ip, err := netip.ParseAddr(forwarded[i])
				if err != nil || !isTrusted(trusted, ip) {
					return withIP(forwarded[i])
				}
			}
			return withIP(forwarded[0])
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "IP Spoofing detected, returning 403 Forbidden",
				slogx.String("event", "requestcontext/ip_spoofing_detected"),
				slogx.String("ip", c.IP()),
				slog.Any("ips", forwarded),
			)
			return nil, rejectError{
				status:  fiber.StatusForbidden,
				message: "not allowed to access",
			}
		}
		return withIP(forwarded[0])
	}
}

func parsePrefixes(ranges []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(ranges))
	for _, r := range ranges {
		prefix, err := netip.ParsePrefix(r)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid CIDR %q", r)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

func isTrusted(trusted []netip.Prefix, ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}
