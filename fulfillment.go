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
	"github.com/partslane/fulfillment/config"
	"github.com/partslane/fulfillment/database"
	"github.com/partslane/fulfillment/internal/cache"
	"github.com/partslane/fulfillment/internal/gateway"
	"github.com/partslane/fulfillment/internal/push"
)

// Fulfillment represents the main struct for the fulfillment service.
type Fulfillment struct {
	datasource    database.IDataSource
	cache         cache.Cache
	gateway       *gateway.Client
	deviceChannel push.Channel
	webChannel    push.Channel
}

// NewFulfillment initializes a new instance of Fulfillment with the provided
// database datasource. It fetches the configuration and wires the cache, the
// payment gateway client and both push channels from it.
func NewFulfillment(db database.IDataSource) (*Fulfillment, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}

	return &Fulfillment{
		datasource:    db,
		cache:         newCache,
		gateway:       gateway.NewClient(configuration.Gateway.Url, configuration.Gateway.SecretKey),
		deviceChannel: push.NewDeviceChannel(configuration.Push.Device.Url, configuration.Push.Device.ServerKey),
		webChannel:    push.NewWebChannel(configuration.Push.Web.Url, configuration.Push.Web.VapidToken),
	}, nil
}
