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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Configuration {
	return &Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost:5432/fulfillment"},
		Redis:      RedisConfig{Dns: "localhost:6379"},
		Gateway:    GatewayConfig{WebhookSecret: "whsec_test"},
	}
}

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := validConfig()
	err := cnf.validateAndAddDefaults()
	assert.NoError(t, err)
	assert.Equal(t, "Fulfillment Server", cnf.ProjectName)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.NotNil(t, cnf.RateLimit.CleanupIntervalSec)
}

func TestValidate_RequiredFields(t *testing.T) {
	cnf := validConfig()
	cnf.DataSource.Dns = ""
	assert.Error(t, cnf.validateAndAddDefaults())

	cnf = validConfig()
	cnf.Redis.Dns = ""
	assert.Error(t, cnf.validateAndAddDefaults())

	cnf = validConfig()
	cnf.Gateway.WebhookSecret = ""
	assert.Error(t, cnf.validateAndAddDefaults())
}

func TestValidate_RateLimitDefaults(t *testing.T) {
	rps := 10.0
	cnf := validConfig()
	cnf.RateLimit.RequestsPerSecond = &rps

	err := cnf.validateAndAddDefaults()
	assert.NoError(t, err)
	assert.NotNil(t, cnf.RateLimit.Burst)
	assert.Equal(t, 20, *cnf.RateLimit.Burst)
}

func TestMockConfigAndFetch(t *testing.T) {
	MockConfig(&Configuration{ProjectName: "test"})
	cnf, err := Fetch()
	assert.NoError(t, err)
	assert.Equal(t, "test", cnf.ProjectName)
}
