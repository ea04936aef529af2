package errorhandler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "public error",
			err:            errs.NewPublicError("'txHex' is required"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "'txHex' is required",
		},
		{
			name:           "missing input spec",
			err:            errors.WithStack(errs.MissingInputSpec),
			expectedStatus: http.StatusBadRequest,
			expectedError:  errs.MissingInputSpec.Error(),
		},
		{
			name:           "not found",
			err:            errors.Wrap(errs.NotFound, "utxo abc:0"),
			expectedStatus: http.StatusNotFound,
			expectedError:  "utxo abc:0: Not Found",
		},
		{
			name:           "broadcast failed",
			err:            errs.WithKind(errors.New("txn-mempool-conflict"), errs.BroadcastFailed),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "txn-mempool-conflict",
		},
		{
			name:           "fiber error",
			err:            fiber.ErrMethodNotAllowed,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  fiber.ErrMethodNotAllowed.Message,
		},
		{
			name:           "unhandled",
			err:            errors.New("connection reset by peer"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
			app.Get("/", func(*fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var result map[string]string
			require.NoError(t, json.Unmarshal(body, &result))
			assert.Equal(t, tc.expectedError, result["error"])
		})
	}
}
