package requestcontext

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// Option extracts a value of the request into the request context.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejectError aborts the request with status and a public message.
type rejectError struct {
	status  int
	message string
}

func (r rejectError) Error() string {
	return r.message
}

// New setup request context and information
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err == nil {
				continue
			}
			if rErr := (rejectError{}); errors.As(err, &rErr) {
				return errors.WithStack(c.Status(rErr.status).JSON(common.HttpResponse[any]{Error: &rErr.message}))
			}

			logger.ErrorContext(ctx, "Failed to extract request context", err,
				slogx.String("event", "requestcontext/error"),
				slog.Int("option_index", i),
			)
			message := "Internal Server Error"
			return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(common.HttpResponse[any]{Error: &message}))
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
