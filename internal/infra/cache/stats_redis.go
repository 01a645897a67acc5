package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mediplus/internal/config"
	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
)

const (
	statusCountsKey = "mediplus:bookings:status_counts"
	generationKey   = statusCountsKey + ":gen"
)

// countsKey is the key holding the counts computed under generation gen.
// Invalidate bumps the generation, so counts written for an older one are
// never read again and expire with their TTL.
func countsKey(gen int64) string {
	return statusCountsKey + ":" + strconv.FormatInt(gen, 10)
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
}

// StatsCache keeps booking counts per status in Redis. Redis errors are
// logged and treated as misses.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, log: log.Named("cache")}
}

// GetStatusCounts returns a negative generation when the generation itself
// could not be read; SetStatusCounts ignores those.
func (c *StatsCache) GetStatusCounts(ctx context.Context) (map[domain.Status]int64, int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("reading status counts generation", zap.Error(err))
			return nil, -1, false
		}
		gen = 0
	}

	raw, err := c.client.Get(ctx, countsKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("reading status counts", zap.Error(err))
		}
		return nil, gen, false
	}

	var counts map[domain.Status]int64
	if err := json.Unmarshal(raw, &counts); err != nil {
		c.log.Warn("decoding status counts", zap.Error(err))
		return nil, gen, false
	}
	return counts, gen, true
}

func (c *StatsCache) SetStatusCounts(ctx context.Context, gen int64, counts map[domain.Status]int64) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, countsKey(gen), raw, c.ttl).Err(); err != nil {
		c.log.Warn("writing status counts", zap.Error(err))
	}
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Warn("invalidating status counts", zap.Error(err))
	}
}

var _ domain.StatsCache = (*StatsCache)(nil)
