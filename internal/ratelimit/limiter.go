package ratelimit

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/arot/internal/config"
	"github.com/smallbiznis/arot/internal/observability/metrics"
	"go.uber.org/zap"
)

const keyWrite = "ratelimit:write:"

// WriteLimiter throttles mutating calls per actor.
type WriteLimiter struct {
	bucket  Bucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewWriteLimiter returns nil when no write rate is configured or redis is
// unavailable.
func NewWriteLimiter(cfg config.Config, client *redis.Client, m *metrics.Metrics, log *zap.Logger) *WriteLimiter {
	limitCfg := cfg.RateLimit
	if limitCfg.WriteRate <= 0 {
		return nil
	}
	bucket := NewTokenBucket(client)
	if bucket == nil {
		log.Warn("write rate limit configured without redis, disabled")
		return nil
	}
	return NewWriteLimiterWithBucket(bucket, limitCfg.WriteRate, limitCfg.WriteBurst, m, log)
}

func NewWriteLimiterWithBucket(bucket Bucket, rate float64, burst int, m *metrics.Metrics, log *zap.Logger) *WriteLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &WriteLimiter{
		bucket:  bucket,
		rate:    rate,
		burst:   burst,
		log:     log.Named("ratelimit"),
		metrics: m,
	}
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow takes a token for key. A bucket failure lets the call through.
func (l *WriteLimiter) Allow(ctx context.Context, key string) Result {
	if !l.Enabled() {
		return Result{Allowed: true}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		key = "anonymous"
	}

	res, err := l.bucket.Allow(ctx, keyWrite+key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("write rate limit check failed", zap.Error(err))
		l.metrics.RecordRateLimit("error")
		return Result{Allowed: true, Limit: l.burst}
	}

	if res.Allowed {
		l.metrics.RecordRateLimit("allowed")
	} else {
		l.metrics.RecordRateLimit("denied")
	}
	return res
}
