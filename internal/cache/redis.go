package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/douhashi/ghkit/pkg/github"
)

const defaultKeyPrefix = "ghkit:http:"

// RedisCache は複数プロセスで共有できるRedisバックエンドのキャッシュ
// エントリはJSONで保存し、TTLはRedis側で管理する
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger github.Logger
}

// RedisOption はRedisCacheの設定オプション
type RedisOption func(*RedisCache)

// WithKeyPrefix はRedisのキーの接頭辞を設定する
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithLogger はキャッシュ操作の失敗を記録するロガーを設定する
func WithLogger(l github.Logger) RedisOption {
	return func(c *RedisCache) {
		c.logger = l
	}
}

// NewRedis は redis://[:password@]host:port/db 形式のURLからRedisCacheを作成する
// 接続は最初のコマンドまで行われない。疎通確認は Ping を使う
func NewRedis(redisURL string, ttl time.Duration, opts ...RedisOption) (*RedisCache, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL is required")
	}
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(options), ttl, opts...), nil
}

// NewRedisWithClient は既存のクライアントを使うRedisCacheを作成する
func NewRedisWithClient(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	return c
}

// Ping はRedisへの疎通を確認する
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close はRedisとの接続を閉じる
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// key はURLを含む長いキャッシュキーをハッシュして固定長にする
func (c *RedisCache) key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, key string) (*github.CachedResponse, bool) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache_get_failed", "backend", "redis", "error", err.Error())
		}
		return nil, false
	}

	var resp github.CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("cache_decode_failed", "backend", "redis", "error", err.Error())
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *github.CachedResponse) {
	if resp == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("cache_encode_failed", "backend", "redis", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache_set_failed", "backend", "redis", "error", err.Error())
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("cache_delete_failed", "backend", "redis", "error", err.Error())
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
