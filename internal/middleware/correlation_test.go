package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDPropagation(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(CorrelationIDFromContext(c.UserContext()))
	})

	cases := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "reuses valid id", incoming: "req-123", reuse: true},
		{name: "generates when missing", incoming: ""},
		{name: "rejects spaces", incoming: "bad id"},
		{name: "rejects oversized", incoming: strings.Repeat("a", 129)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(HeaderCorrelationID, tc.incoming)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			header := resp.Header.Get(HeaderCorrelationID)
			if tc.reuse {
				require.Equal(t, tc.incoming, header)
				return
			}
			_, err = uuid.Parse(header)
			require.NoError(t, err)
		})
	}
}
