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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client)
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	err := c.Set(ctx, "tracking:ord_1", payload{ID: "trk_1", Status: "EN_ROUTE"}, time.Minute)
	assert.NoError(t, err)

	var got payload
	err = c.Get(ctx, "tracking:ord_1", &got)
	assert.NoError(t, err)
	assert.Equal(t, "trk_1", got.ID)
	assert.Equal(t, "EN_ROUTE", got.Status)
}

func TestGetMissLeavesTargetUntouched(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var got struct {
		ID string `json:"id"`
	}
	err := c.Get(ctx, "tracking:ord_missing", &got)
	assert.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestDeleteRemovesEntry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "tracking:ord_1", "cached", time.Minute))
	assert.NoError(t, c.Delete(ctx, "tracking:ord_1"))

	var got string
	assert.NoError(t, c.Get(ctx, "tracking:ord_1", &got))
	assert.Empty(t, got)
}
