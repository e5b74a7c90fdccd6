package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appprod "github.com/atelier/backend/internal/application/production"
	"github.com/redis/go-redis/v9"
)

const stockSummaryKey = "atelier:stock:summary"

// RedisStockSummaryCache implements the stock summary cache on Redis.
// Suitable for distributed deployments where multiple instances share
// the cached ledger totals.
type RedisStockSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStockSummaryCache creates a cache backed by a new Redis client
func NewRedisStockSummaryCache(cfg RedisConfig, ttl time.Duration) (*RedisStockSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStockSummaryCache{client: client, ttl: ttl}, nil
}

// NewRedisStockSummaryCacheWithClient creates a cache sharing an existing client
func NewRedisStockSummaryCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStockSummaryCache {
	return &RedisStockSummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary, or (nil, nil) on a miss
func (c *RedisStockSummaryCache) Get(ctx context.Context) (*appprod.StockSummaryDTO, error) {
	payload, err := c.client.Get(ctx, stockSummaryKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stock summary cache: %w", err)
	}

	var summary appprod.StockSummaryDTO
	if err := json.Unmarshal(payload, &summary); err != nil {
		// A corrupt entry is treated as a miss so the caller falls
		// through to the database.
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary with the configured TTL
func (c *RedisStockSummaryCache) Set(ctx context.Context, summary *appprod.StockSummaryDTO) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode stock summary: %w", err)
	}
	if err := c.client.Set(ctx, stockSummaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stock summary cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary after a ledger mutation
func (c *RedisStockSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, stockSummaryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stock summary cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisStockSummaryCache) Close() error {
	return c.client.Close()
}

// Ensure RedisStockSummaryCache implements the application cache interface
var _ appprod.StockSummaryCache = (*RedisStockSummaryCache)(nil)
