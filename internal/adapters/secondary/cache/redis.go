package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisUnreadCounter keeps one integer per recipient: "unread:<userID>".
type RedisUnreadCounter struct {
	client *redis.Client
	ttl    time.Duration // 30 jours, un compteur oublié finit par expirer
}

func NewRedisUnreadCounter(client *redis.Client) *RedisUnreadCounter {
	return &RedisUnreadCounter{
		client: client,
		ttl:    24 * 30 * time.Hour,
	}
}

func (c *RedisUnreadCounter) Increment(ctx context.Context, userID string) error {
	key := unreadKey(userID)

	pipe := c.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis incr %s: %w", key, err)
	}
	return nil
}

func (c *RedisUnreadCounter) Reset(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisUnreadCounter) Get(ctx context.Context, userID string) (int64, error) {
	n, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return n, nil
}

func unreadKey(userID string) string {
	return fmt.Sprintf("unread:%s", userID)
}
