package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoice-portal/config"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by Client.Get when the key does not exist.
var ErrMiss = errors.New("cache: miss")

// Client is the subset of Redis the decorators use.
type Client interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

var _ Client = (*redisClient)(nil)

type redisClient struct {
	cli *redis.Client
}

// NewRedisClient connects and pings. URL may be a redis:// URL or a plain
// host:port address.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if strings.HasPrefix(cfg.URL, "redis://") || strings.HasPrefix(cfg.URL, "rediss://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.Password != "" {
			parsed.Password = cfg.Password
		}
		if cfg.DB != 0 {
			parsed.DB = cfg.DB
		}
		opts = parsed
	}

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &redisClient{cli: c}, nil
}

func (c *redisClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := c.cli.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (c *redisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *redisClient) Close() error { return c.cli.Close() }
