package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	lowimpl "github.com/redis/go-redis/v9"

	"github.com/daddykotex/pdf-edit-bulk/db/kvdb"
)

type Client struct {
	Conf *kvdb.Conf

	// implementation details, not exported
	internal *lowimpl.Client
}

// Ensure redis.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func (c *Client) Init(ctx context.Context) error {
	c.internal = lowimpl.NewClient(&lowimpl.Options{
		Addr:     c.Conf.Addr(),
		Password: c.Conf.PW,
		DB:       c.Conf.DB,
	})
	if err := c.internal.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	log.Println("[INFO][KV] redis client initialized")
	return nil
}

func (c *Client) Close() error {
	if c.internal == nil {
		return nil
	}
	return c.internal.Close()
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

func (c *Client) key(k string) string {
	return c.Conf.KeyPrefix + k
}

func (c *Client) Incr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	k := c.key(key)
	n, err := c.internal.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && expiration > 0 {
		// first hit of the window owns the TTL
		if err := c.internal.Expire(ctx, k, expiration).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}
