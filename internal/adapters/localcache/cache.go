// Package localcache is the in-process Cache used when no Redis is configured.
package localcache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tapas_chat/internal/adapters/observability"
)

// Values are stored JSON encoded so callers get the same copy semantics as Redis.
type Cache struct{ c *gocache.Cache }

func New(defaultTTL time.Duration) *Cache {
	return &Cache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (l *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := l.c.Get(key)
	if !ok {
		observability.ObserveCache("local", "miss")
		return false, nil
	}
	observability.ObserveCache("local", "hit")
	return true, json.Unmarshal(v.([]byte), dst)
}

func (l *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := gocache.DefaultExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}
	observability.ObserveCache("local", "set")
	l.c.Set(key, b, ttl)
	return nil
}

func (l *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("local", "del")
	l.c.Delete(key)
	return nil
}
