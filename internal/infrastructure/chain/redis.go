package chain

import (
	"context"
	"fmt"
	"math"

	domain "lending-ledger/internal/domain/chain"

	"github.com/redis/go-redis/v9"
)

const DefaultHeightKey = "lend:chain:height"

var _ domain.Clock = (*RedisClock)(nil)

// RedisClock shares one block counter between every API replica.
// The key is seeded with the start height on first use.
type RedisClock struct {
	rdb   *redis.Client
	key   string
	start uint64
}

func NewRedisClock(rdb *redis.Client, key string, start uint64) *RedisClock {
	if key == "" {
		key = DefaultHeightKey
	}
	return &RedisClock{rdb: rdb, key: key, start: start}
}

func (c *RedisClock) seed(ctx context.Context) error {
	return c.rdb.SetNX(ctx, c.key, c.start, 0).Err()
}

func (c *RedisClock) Height(ctx context.Context) (uint64, error) {
	if err := c.seed(ctx); err != nil {
		return 0, fmt.Errorf("seed block height: %w", err)
	}
	h, err := c.rdb.Get(ctx, c.key).Uint64()
	if err != nil {
		return 0, fmt.Errorf("get block height: %w", err)
	}
	return h, nil
}

func (c *RedisClock) Advance(ctx context.Context, n uint64) (uint64, error) {
	if n == 0 {
		return 0, domain.ErrInvalidAdvance
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("block count %d too large", n)
	}
	if err := c.seed(ctx); err != nil {
		return 0, fmt.Errorf("seed block height: %w", err)
	}
	h, err := c.rdb.IncrBy(ctx, c.key, int64(n)).Result()
	if err != nil {
		return 0, fmt.Errorf("advance block height: %w", err)
	}
	return uint64(h), nil
}
