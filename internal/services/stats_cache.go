package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/fundingledger/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatsCache keeps funding overviews in Redis for a short TTL.
// A nil client disables caching.
//
// Entries are keyed by a per-kind generation counter. Invalidate bumps the
// counter, so an overview computed before a write lands under a generation
// nobody reads any more and simply expires.
type StatsCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsCache {
	return &StatsCache{redis: client, ttl: ttl, logger: logger}
}

func statsPrefix(kind models.FundingKind) string {
	return "funding:stats:" + strings.ToLower(string(kind))
}

func statsGenerationKey(kind models.FundingKind) string {
	return statsPrefix(kind) + ":gen"
}

func statsKey(kind models.FundingKind, generation int64) string {
	return statsPrefix(kind) + ":" + strconv.FormatInt(generation, 10)
}

// Get returns the cached overview and the generation it was looked up under.
// A negative generation means the cache could not be reached and Set should be skipped.
func (c *StatsCache) Get(ctx context.Context, kind models.FundingKind) (*models.FundingStats, int64, bool) {
	if c == nil || c.redis == nil {
		return nil, -1, false
	}

	generation, err := c.redis.Get(ctx, statsGenerationKey(kind)).Int64()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.String("kind", string(kind)), zap.Error(err))
			return nil, -1, false
		}
		generation = 0
	}

	data, err := c.redis.Get(ctx, statsKey(kind, generation)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		return nil, generation, false
	}

	var stats models.FundingStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.Warn("stats cache entry corrupt", zap.String("kind", string(kind)), zap.Error(err))
		return nil, generation, false
	}
	return &stats, generation, true
}

// Set stores stats under the generation returned by the Get that preceded the read.
func (c *StatsCache) Set(ctx context.Context, stats *models.FundingStats, generation int64) {
	if c == nil || c.redis == nil || generation < 0 {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, statsKey(stats.Kind, generation), data, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.String("kind", string(stats.Kind)), zap.Error(err))
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, kind models.FundingKind) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, statsGenerationKey(kind)).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
