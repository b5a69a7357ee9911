// Package tiercache stores dashboard tier payloads in a key-value store.
package tiercache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache lookup outcomes, used as the "result" metric label.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// store is the consumer interface for the tier cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// BreakerConfig tunes the circuit breaker around the store.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Config holds key derivation and breaker settings.
type Config struct {
	KeyPrefix string
	Version   string
	Breaker   BreakerConfig
}

// Cache reads and writes tier payloads through a circuit breaker.
type Cache struct {
	store      store
	breaker    *gobreaker.CircuitBreaker
	prefix     string
	version    string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a tier cache.
// cacheTotal is a counter vec with labels "tier" and "result", passed explicitly.
func New(s store, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dashboard-cache",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Cache{
		store:      s,
		breaker:    breaker,
		prefix:     cfg.KeyPrefix,
		version:    cfg.Version,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Key derives the cache key of a tier for a principal and time range.
func (c *Cache) Key(tier dashboard.Tier, principalID string, tr dashboard.TimeRange) string {
	return strings.Join([]string{
		c.prefix + "dashboard", c.version, string(tier), principalID, string(tr),
	}, ":")
}

// Get returns the cached payload of a tier.
// Store errors, an open breaker, and corrupt payloads all report a miss.
func (c *Cache) Get(ctx context.Context, tier dashboard.Tier, key string) (dashboard.Payload, bool) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		data, err := c.store.Get(ctx, key)
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		c.inc(tier, ResultError)
		c.logger.Warn("Failed to get cached tier",
			zap.String("tier", string(tier)), zap.String("key", key), zap.Error(err))
		return nil, false
	}

	data, _ := res.([]byte)
	if len(data) == 0 {
		c.inc(tier, ResultMiss)
		return nil, false
	}

	p, err := decode(tier, data)
	if err != nil {
		c.inc(tier, ResultError)
		c.logger.Warn("Failed to parse cached tier",
			zap.String("tier", string(tier)), zap.String("key", key), zap.Error(err))
		return nil, false
	}

	c.inc(tier, ResultHit)
	return p, true
}

// Set stores a tier payload with the tier TTL.
func (c *Cache) Set(ctx context.Context, tier dashboard.Tier, key string, p dashboard.Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", tier, err)
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.store.SetWithTTL(ctx, key, data, tier.TTL())
	})
	if err != nil {
		return fmt.Errorf("cache %s: %w", key, err)
	}
	return nil
}

// isHealthy reports whether err says nothing about the store's health.
// Cancelled or expired callers and missing keys never trip the breaker.
func isHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, db.ErrKeyNotFound)
}

func (c *Cache) inc(tier dashboard.Tier, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(tier), result).Inc()
	}
}

func decode(tier dashboard.Tier, data []byte) (dashboard.Payload, error) {
	var p dashboard.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	for _, f := range tier.Fields() {
		if _, ok := p[f]; !ok {
			return nil, fmt.Errorf("missing field %q", f)
		}
	}
	return p, nil
}
