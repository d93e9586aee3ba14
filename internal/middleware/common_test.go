package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegisterPipeline(t *testing.T) {
	for _, accessLog := range []bool{false, true} {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		app := fiber.New()
		Register(app, Config{Logger: &logger, AccessLog: accessLog})
		app.Get("/panic", func(c *fiber.Ctx) error {
			panic("boom")
		})
		app.Get("/ok", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})

		req := httptest.NewRequest(fiber.MethodGet, "/ok", nil)
		req.Header.Set(fiber.HeaderOrigin, "http://example.com")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NotEmpty(t, resp.Header.Get(HeaderCorrelationID))
		require.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

		resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		require.Contains(t, buf.String(), `"route":"/ok"`)
	}
}
