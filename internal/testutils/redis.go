// Package testutils provides utilities for testing, including Redis test helpers
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/witchfire-saves/internal/redis"
)

// CreateTestRedisClient creates an in-memory Redis client for testing
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	_, client, cleanup := CreateTestRedisServer(t)
	return client, cleanup
}

// CreateTestRedisServer also returns the miniredis instance so tests can
// inspect keys and fast-forward TTLs
func CreateTestRedisServer(t *testing.T) (*miniredis.Miniredis, redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient(redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err, "failed to create redis client")

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return mr, client, cleanup
}
