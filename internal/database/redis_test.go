package database

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr()+"/0", time.Second)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	server.CheckGet(t, "k", "v")
}

func TestConnectRedisErrors(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "", time.Second)
	require.Error(t, err)

	_, err = ConnectRedis(context.Background(), "://bad", time.Second)
	require.Error(t, err)
}
