package requestlogger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{
		WithRequestHeader:    true,
		WithRequestQuery:     true,
		HiddenRequestHeaders: []string{"X-Api-Key"},
		SkipPaths:            []string{"/"},
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/utxos", func(c *fiber.Ctx) error { return c.SendString("[]") })
	app.Get("/fail", func(*fiber.Ctx) error { return fiber.ErrBadGateway })

	testCases := []struct {
		path           string
		expectedStatus int
	}{
		{path: "/", expectedStatus: http.StatusOK},
		{path: "/utxos?confirmations=1", expectedStatus: http.StatusOK},
		{path: "/fail", expectedStatus: http.StatusBadGateway},
	}
	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("X-Api-Key", "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.expectedStatus, resp.StatusCode, tc.path)
	}
}
