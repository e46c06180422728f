package keys

import (
	"context"

	"github.com/redis/go-redis/v9"

	errx "github.com/catalog-chat/server/internal/core/error"
)

// DefaultCursorKey is the Redis key holding the shared rotation position.
const DefaultCursorKey = "chat:apikey:cursor"

// RedisCursor shares the rotation position between server processes with
// INCR, so replicas spread load over the keys together.
type RedisCursor struct {
	rdb redis.Cmdable
	key string
}

func NewRedisCursor(rdb redis.Cmdable, key string) *RedisCursor {
	if key == "" {
		key = DefaultCursorKey
	}
	return &RedisCursor{rdb: rdb, key: key}
}

func (c *RedisCursor) Next(ctx context.Context) (uint64, error) {
	n, err := c.rdb.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, errx.WrapRedis(err)
	}
	// INCR starts at 1.
	return uint64(n - 1), nil
}

var _ Cursor = (*RedisCursor)(nil)
