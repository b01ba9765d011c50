// Package cache memoizes group balance reports in Redis.
//
// The cache is optional: without a Redis URL, or when Redis cannot be reached
// at startup, Connect returns a Noop cache and every lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "budgetly:balances:"
	versionPrefix = "budgetly:balances-version:"
)

// BalanceCache stores one JSON document per group.
//
// Every Invalidate bumps the group's version. A report computed from data read
// at version v is only stored while the group is still at v, so a mutation
// racing a computation cannot leave a stale report behind.
type BalanceCache interface {
	// Get decodes the cached value for groupID into dst and reports whether
	// there was one.
	Get(ctx context.Context, groupID string, dst any) (bool, error)
	// Version returns the current version of groupID. Read it before loading
	// the data the cached value is computed from.
	Version(ctx context.Context, groupID string) (int64, error)
	// Set stores value unless groupID changed since version, and reports
	// whether it did.
	Set(ctx context.Context, groupID string, version int64, value any) (bool, error)
	// Invalidate drops the cached value after any change to the group.
	Invalidate(ctx context.Context, groupID string) error
}

// Connect opens a Redis-backed cache, falling back to Noop when redisURL is
// empty or the server does not answer.
func Connect(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) BalanceCache {
	if redisURL == "" {
		logger.Info("Balance cache disabled")
		return Noop{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("Invalid Redis URL, running without cache", "error", err)
		return Noop{}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis not available, running without cache", "error", err)
		client.Close()
		return Noop{}
	}

	logger.Info("Redis connected", "addr", opts.Addr, "ttl", ttl)
	return NewRedis(client, ttl)
}

// Redis is a BalanceCache backed by a go-redis client.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps client. Entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, groupID string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+groupID).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached balances: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached balances: %w", err)
	}
	return true, nil
}

func (r *Redis) Version(ctx context.Context, groupID string) (int64, error) {
	v, err := r.client.Get(ctx, versionPrefix+groupID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balances version: %w", err)
	}
	return v, nil
}

// setIfVersion writes ARGV[2] to KEYS[2] when KEYS[1] still holds ARGV[1].
// ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func (r *Redis) Set(ctx context.Context, groupID string, version int64, value any) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to encode balances: %w", err)
	}
	stored, err := setIfVersion.Run(ctx, r.client,
		[]string{versionPrefix + groupID, keyPrefix + groupID},
		strconv.FormatInt(version, 10), data, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache balances: %w", err)
	}
	return stored == 1, nil
}

func (r *Redis) Invalidate(ctx context.Context, groupID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionPrefix+groupID)
		pipe.Del(ctx, keyPrefix+groupID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate balances: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Version(context.Context, string) (int64, error)         { return 0, nil }
func (Noop) Set(context.Context, string, int64, any) (bool, error) { return false, nil }
func (Noop) Invalidate(context.Context, string) error              { return nil }
