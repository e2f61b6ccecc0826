package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/douhashi/ghkit/pkg/github"
)

type entry struct {
	resp      *github.CachedResponse
	expiresAt time.Time
}

// MemoryCache はプロセス内のLRUキャッシュ
// ttlが0の場合はLRUから追い出されるまで保持する
type MemoryCache struct {
	lru *lru.Cache[string, *entry]
	ttl time.Duration
	now func() time.Time
}

// NewMemory は最大size件を保持するMemoryCacheを作成する
func NewMemory(size int, ttl time.Duration) (*MemoryCache, error) {
	l, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (*github.CachedResponse, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.resp, true
}

func (c *MemoryCache) Set(_ context.Context, key string, resp *github.CachedResponse) {
	if resp == nil {
		return
	}
	e := &entry{resp: resp}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.lru.Add(key, e)
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.lru.Remove(key)
}

// Len は保持している件数を返す（期限切れを含む）
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
