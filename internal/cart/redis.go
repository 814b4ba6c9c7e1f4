package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lotdesk/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisPersistence stores carts in Redis, one key per buyer. Suits
// multi-instance deployments where the cart must survive any single
// process.
type RedisPersistence struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersistence connects to Redis at addr. A zero ttl keeps carts
// forever.
func NewRedisPersistence(addr string, ttl time.Duration) (*RedisPersistence, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisPersistence{client: client, ttl: ttl}, nil
}

// Close releases the Redis connection.
func (p *RedisPersistence) Close() error {
	return p.client.Close()
}

func cartKey(owner string) string {
	return "lotdesk:cart:" + owner
}

// Save stores the full serialized cart for one buyer.
func (p *RedisPersistence) Save(ctx context.Context, owner string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := p.client.Set(ctx, cartKey(owner), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// Load returns the persisted cart for one buyer, empty when none exists.
func (p *RedisPersistence) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	data, err := p.client.Get(ctx, cartKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return items, nil
}
