package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Total float64 `json:"total"`
	Debts int     `json:"debts"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c := Connect(ctx, "redis://"+mr.Addr(), time.Minute, discardLogger())
	require.IsType(t, &Redis{}, c)

	var got report
	found, err := c.Get(ctx, "g1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	stored, err := c.Set(ctx, "g1", 0, report{Total: 150, Debts: 2})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists(keyPrefix+"g1"))

	found, err = c.Get(ctx, "g1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, report{Total: 150, Debts: 2}, got)

	t.Run("entries expire", func(t *testing.T) {
		_, err := c.Set(ctx, "g2", 0, report{Total: 1})
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)
		found, err := c.Get(ctx, "g2", &report{})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("invalidate", func(t *testing.T) {
		_, err := c.Set(ctx, "g3", 0, report{Total: 1})
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx, "g3"))
		found, err := c.Get(ctx, "g3", &report{})
		require.NoError(t, err)
		assert.False(t, found)

		version, err := c.Version(ctx, "g3")
		require.NoError(t, err)
		assert.Equal(t, int64(1), version)

		// Invalidating a missing key is not an error
		assert.NoError(t, c.Invalidate(ctx, "missing"))
	})

	t.Run("report older than an invalidation is dropped", func(t *testing.T) {
		version, err := c.Version(ctx, "g5")
		require.NoError(t, err)
		assert.Zero(t, version)

		// The group changes while the report is being computed
		require.NoError(t, c.Invalidate(ctx, "g5"))

		stored, err := c.Set(ctx, "g5", version, report{Total: 1})
		require.NoError(t, err)
		assert.False(t, stored)
		assert.False(t, mr.Exists(keyPrefix+"g5"))

		current, err := c.Version(ctx, "g5")
		require.NoError(t, err)
		stored, err = c.Set(ctx, "g5", current, report{Total: 2})
		require.NoError(t, err)
		assert.True(t, stored)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		require.NoError(t, mr.Set(keyPrefix+"g4", "{not json"))
		_, err := c.Get(ctx, "g4", &report{})
		assert.Error(t, err)
	})
}

func TestConnectFallsBackToNoop(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Noop{}, Connect(ctx, "", time.Minute, discardLogger()))
	assert.Equal(t, Noop{}, Connect(ctx, "://bad", time.Minute, discardLogger()))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	assert.Equal(t, Noop{}, Connect(ctx, "redis://"+addr, time.Minute, discardLogger()))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c BalanceCache = Noop{}

	stored, err := c.Set(ctx, "g1", 0, report{Total: 1})
	require.NoError(t, err)
	assert.False(t, stored)
	found, err := c.Get(ctx, "g1", &report{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, "g1"))
}
