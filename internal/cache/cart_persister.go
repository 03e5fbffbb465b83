package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartPersister stores a terminal's serialized cart under cart:<terminal>.
// Every save refreshes the TTL, so only carts idle for the whole TTL expire.
type CartPersister struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewCartPersister(client redis.Cmdable, terminalID string, ttl time.Duration) *CartPersister {
	return &CartPersister{
		client: client,
		key:    Key(CartKeyPrefix, terminalID),
		ttl:    ttl,
	}
}

func (p *CartPersister) Save(ctx context.Context, data []byte) error {
	if err := p.client.Set(ctx, p.key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", p.key, err)
	}

	return nil
}

func (p *CartPersister) Load(ctx context.Context) ([]byte, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load cart %s: %w", p.key, err)
	}

	return data, nil
}
