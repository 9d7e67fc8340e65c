package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"storefront-orders/internal/models"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/adjust_stock.lua
var adjustStockScript string

// Client mirrors stock quantities into Redis so the storefront can read
// availability without touching Postgres. The database stays authoritative;
// the cache is refreshed best-effort after each committed adjustment and
// fully re-synced at startup.
type Client struct {
	rdb          *redis.Client
	adjustScript *redis.Script
}

// NewClient creates a new Redis client with the adjust script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:          rdb,
		adjustScript: redis.NewScript(adjustStockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(target models.StockTarget) string {
	return fmt.Sprintf("stock:%s:%d", target.Kind, target.ID)
}

// AdjustStock atomically applies a signed delta to a cached stock quantity,
// clamped at zero to match the store's floor invariant.
func (c *Client) AdjustStock(ctx context.Context, target models.StockTarget, delta int) error {
	_, err := c.adjustScript.Run(ctx, c.rdb, []string{stockKey(target)}, delta).Result()
	if err != nil {
		return fmt.Errorf("adjust stock script failed: %w", err)
	}
	return nil
}

// SetStock overwrites the cached quantity for a target.
func (c *Client) SetStock(ctx context.Context, target models.StockTarget, quantity int) error {
	return c.rdb.Set(ctx, stockKey(target), quantity, 0).Err()
}

// GetStock reads the cached quantity for a target.
func (c *Client) GetStock(ctx context.Context, target models.StockTarget) (int, error) {
	quantity, err := c.rdb.Get(ctx, stockKey(target)).Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("stock not cached for %s %d", target.Kind, target.ID)
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}
