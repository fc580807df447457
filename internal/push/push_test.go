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

package push

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/partslane/fulfillment/model"
)

func TestDeviceChannel_SendSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://push.device.test/send",
		httpmock.NewStringResponder(http.StatusOK, `{"success":1}`))

	channel := NewDeviceChannel("https://push.device.test/send", "key_test")
	err := channel.Send(model.PushEndpoint{ID: "dvt_1", Address: "tok_abc"}, model.PushMessage{Title: "Order update", Body: "Shipped"})
	assert.NoError(t, err)
}

func TestDeviceChannel_GoneTokenReportsEndpointGone(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://push.device.test/send",
		httpmock.NewStringResponder(http.StatusGone, `{"error":"NotRegistered"}`))

	channel := NewDeviceChannel("https://push.device.test/send", "key_test")
	err := channel.Send(model.PushEndpoint{ID: "dvt_1", Address: "tok_dead"}, model.PushMessage{Title: "Order update"})
	assert.True(t, errors.Is(err, ErrEndpointGone))
}

func TestWebChannel_NotFoundReportsEndpointGone(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://push.web.test/send",
		httpmock.NewStringResponder(http.StatusNotFound, `{}`))

	channel := NewWebChannel("https://push.web.test/send", "vapid_test")
	err := channel.Send(model.PushEndpoint{ID: "sub_1", Address: "https://browser.push/ep_dead"}, model.PushMessage{Title: "Order update"})
	assert.True(t, errors.Is(err, ErrEndpointGone))
}

func TestWebChannel_ServerErrorIsTransient(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://push.web.test/send",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{}`))

	channel := NewWebChannel("https://push.web.test/send", "vapid_test")
	err := channel.Send(model.PushEndpoint{ID: "sub_1", Address: "https://browser.push/ep_1"}, model.PushMessage{Title: "Order update"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrEndpointGone))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(http.StatusOK))
	assert.NoError(t, classify(http.StatusCreated))
	assert.Equal(t, ErrEndpointGone, classify(http.StatusNotFound))
	assert.Equal(t, ErrEndpointGone, classify(http.StatusGone))
	assert.Error(t, classify(http.StatusTooManyRequests))
}
