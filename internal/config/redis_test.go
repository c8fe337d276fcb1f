package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisAddr_AddrTakesPrecedence(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_HOST", "other-host")
	t.Setenv("REDIS_PORT", "6379")

	assert.Equal(t, "redis.internal:6380", redisAddr())
}

func TestRedisAddr_HostPortFallback(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "cache-host")
	t.Setenv("REDIS_PORT", "6390")

	assert.Equal(t, "cache-host:6390", redisAddr())
}

func TestRedisAddr_Default(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")

	assert.Equal(t, "localhost:6379", redisAddr())
}
