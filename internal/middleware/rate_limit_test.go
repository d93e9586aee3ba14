package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(storage fiber.Storage) *fiber.App {
	app := fiber.New()
	app.Post("/evaluate", RateLimit("evaluate", 2, time.Minute, storage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimitWithRedisStorage(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	app := newLimitedApp(NewRedisStorage(client, "test:limiter:"))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/evaluate", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/evaluate", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	require.NotEmpty(t, server.Keys())
	for _, key := range server.Keys() {
		require.Contains(t, key, "test:limiter:")
	}
}

func TestRateLimitInMemory(t *testing.T) {
	app := newLimitedApp(nil)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/evaluate", nil), -1)
		require.NoError(t, err)
		last = resp.StatusCode
	}
	require.Equal(t, fiber.StatusTooManyRequests, last)
}

func TestRedisStorageOperations(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	storage := NewRedisStorage(client, "p:")

	value, err := storage.Get("missing")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, storage.Set("a", []byte("1"), time.Minute))
	require.NoError(t, storage.Set("b", []byte("2"), 0))
	require.NoError(t, client.Set(context.Background(), "other", "x", 0).Err())

	value, err = storage.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), value)

	require.NoError(t, storage.Delete("a"))
	value, err = storage.Get("a")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, storage.Reset())
	require.Equal(t, []string{"other"}, server.Keys())
	require.NoError(t, storage.Close())
}
