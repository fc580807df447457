/*
Copyright 2025 Partslane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"

	"github.com/partslane/fulfillment/config"
)

// Cache is the read-through cache used for tracking projections. Lookups
// that miss return nil error with data untouched, so callers always fall
// back to the database.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, key string) error
}

// localCacheSize is the entry count for the in-process TinyLFU layer that
// sits in front of Redis.
const localCacheSize = 128000

type RedisCache struct {
	cache *cache.Cache
}

// NewCache connects to the configured Redis instance and layers a local
// TinyLFU cache in front of it.
func NewCache() (Cache, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	dns := cfg.Redis.Dns
	if !strings.Contains(dns, "://") {
		dns = fmt.Sprintf("redis://%s", dns)
	}
	opts, err := redis.ParseURL(dns)
	if err != nil {
		return nil, err
	}

	return NewRedisCache(redis.NewClient(opts)), nil
}

// NewRedisCache wraps an existing Redis client; tests hand in a miniredis
// backed client here.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	c := cache.New(&cache.Options{
		Redis:      client,
		LocalCache: cache.NewTinyLFU(localCacheSize, 1*time.Minute),
	})
	return &RedisCache{cache: c}
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, &data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
