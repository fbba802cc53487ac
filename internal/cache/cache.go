package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/model"
)

const productKeyPrefix = "product:"

// ProductTTL bounds staleness of cached products between invalidations.
const ProductTTL = 5 * time.Minute

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil Client behaves like a permanent cache miss.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return nil
	}
	return nil
}

// GetProduct returns the cached product, or nil on miss.
func (c *Client) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	data, err := c.Get(ctx, productKey(id))
	if err != nil || data == nil {
		return nil, err
	}
	var product model.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// stale or corrupt entry: treat as a miss
		return nil, nil
	}
	return &product, nil
}

// SetProduct caches the product.
func (c *Client) SetProduct(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	return c.Set(ctx, productKey(product.ID), data, ProductTTL)
}

// InvalidateProduct drops the cached product after a catalog mutation.
func (c *Client) InvalidateProduct(ctx context.Context, id uint) error {
	return c.Delete(ctx, productKey(id))
}

func productKey(id uint) string {
	return fmt.Sprintf("%s%d", productKeyPrefix, id)
}
