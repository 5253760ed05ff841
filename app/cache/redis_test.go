package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Integration(t *testing.T) {
	var opts struct {
		Addr string `env:"REDIS_ADDR"`
	}

	_, err := flags.NewParser(&opts, flags.Default|flags.IgnoreUnknown).ParseArgs(nil)
	require.NoError(t, err)

	if opts.Addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, opts.Addr, "", 0)
	require.NoError(t, err)
	defer r.Close()

	_, ok, err := r.Get(ctx, "newsdigest:test:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "newsdigest:test:key", []byte("value"), time.Second))
	v, ok, err := r.Get(ctx, "newsdigest:test:key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), v)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedis(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
