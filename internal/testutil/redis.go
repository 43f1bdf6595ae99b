package testutil

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"civicpulse/portal/internal/session"
)

// NewRedis starts an in-process Redis and returns a client for it. Both are
// closed through t.Cleanup.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func NewSessionStore(t *testing.T) *session.RedisStore {
	t.Helper()
	client, _ := NewRedis(t)
	return session.NewRedisStore(client, time.Hour)
}
