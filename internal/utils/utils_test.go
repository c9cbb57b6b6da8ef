package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresEnv_DSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "postgres://postgres@localhost:5432/areacodes?sslmode=disable", PostgresEnv{}.DSN())

	p := PostgresEnv{Host: "db", Port: "6543", User: "u", Password: "p", DB: "codes", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:6543/codes?sslmode=require", p.DSN())
}

func TestRedisAddrFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	assert.Equal(t, "cache:6380", RedisAddrFromEnv())
}

func TestOpenRedisFromEnv_badDBFallsBackToZero(t *testing.T) {
	t.Setenv("REDIS_DB", "x")

	c := OpenRedisFromEnv()
	defer c.Close()
	assert.Equal(t, 0, c.Options().DB)
}
