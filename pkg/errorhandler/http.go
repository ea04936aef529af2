package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// kindStatuses maps error kinds whose message is safe to expose to an HTTP status.
var kindStatuses = []struct {
	kind   errs.ErrorKind
	status int
}{
	{errs.MissingInputSpec, http.StatusBadRequest},
	{errs.InvalidArgument, http.StatusBadRequest},
	{errs.Unsupported, http.StatusBadRequest},
	{errs.NotFound, http.StatusNotFound},
	{errs.EncryptionFailed, http.StatusUnprocessableEntity},
	{errs.BuildFailed, http.StatusUnprocessableEntity},
	{errs.BroadcastFailed, http.StatusBadGateway},
}

func errorResponse(message string) common.HttpResponse[any] {
	return common.HttpResponse[any]{Error: &message}
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(errorResponse(e.Message())))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(errorResponse(e.Error())))
		}
		for _, k := range kindStatuses {
			if !errors.Is(err, k.kind) {
				continue
			}
			logger.WarnContext(ctx.UserContext(), "Request failed",
				slogx.String("event", "api_error"),
				slogx.String("kind", string(k.kind)),
				slogx.Error(err),
			)
			return errors.WithStack(ctx.Status(k.status).JSON(errorResponse(err.Error())))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(errorResponse("Internal Server Error")))
	}
}
