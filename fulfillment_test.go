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

package fulfillment

import (
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/partslane/fulfillment/config"
	"github.com/partslane/fulfillment/database/mocks"
	"github.com/partslane/fulfillment/internal/cache"
	"github.com/partslane/fulfillment/internal/gateway"
	"github.com/partslane/fulfillment/model"
)

const (
	anyCtx = mock.Anything
	anyArg = mock.Anything
)

// fakeChannel is an in-memory push channel that records what it was asked
// to send and fails with a configured error per endpoint ID.
type fakeChannel struct {
	mu     sync.Mutex
	sent   []model.PushEndpoint
	errors map[string]error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{errors: map[string]error{}}
}

func (c *fakeChannel) Send(endpoint model.PushEndpoint, message model.PushMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.errors[endpoint.ID]; ok {
		return err
	}
	c.sent = append(c.sent, endpoint)
	return nil
}

func (c *fakeChannel) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func newTestFulfillment(t *testing.T) (*Fulfillment, *mocks.MockDataSource, *fakeChannel, *fakeChannel) {
	t.Helper()
	config.MockConfig(&config.Configuration{})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mockDS := &mocks.MockDataSource{}
	device := newFakeChannel()
	web := newFakeChannel()

	return &Fulfillment{
		datasource:    mockDS,
		cache:         cache.NewRedisCache(client),
		gateway:       gateway.NewClient("https://gateway.test", "sk_test"),
		deviceChannel: device,
		webChannel:    web,
	}, mockDS, device, web
}

// expectQuietNotifications satisfies the fan-out calls a successful
// operation makes without asserting on them.
func expectQuietNotifications(mockDS *mocks.MockDataSource) {
	mockDS.On("RecordNotification", anyCtx, anyArg).Return(&model.Notification{}, nil)
	mockDS.On("GetActiveDeviceTokens", anyCtx, anyArg).Return([]model.DeviceToken{}, nil)
	mockDS.On("GetActivePushSubscriptions", anyCtx, anyArg).Return([]model.PushSubscription{}, nil)
}
