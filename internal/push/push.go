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

// Package push wraps the two independent push-delivery collaborators: the
// device-token provider for mobile push and the subscription-based web-push
// provider. Both clients report a permanently dead endpoint through
// ErrEndpointGone so the fan-out can prune it; any other failure is
// transient and leaves the endpoint registered.
package push

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/partslane/fulfillment/internal/request"
	"github.com/partslane/fulfillment/model"
)

// ErrEndpointGone marks a delivery endpoint the provider reports as
// permanently invalid (expired token, unsubscribed browser).
var ErrEndpointGone = errors.New("push endpoint gone")

// Channel is one push-delivery mechanism.
type Channel interface {
	Send(endpoint model.PushEndpoint, message model.PushMessage) error
}

// DeviceChannel submits to the token-based mobile push provider.
type DeviceChannel struct {
	url       string
	serverKey string
}

func NewDeviceChannel(url, serverKey string) *DeviceChannel {
	return &DeviceChannel{url: url, serverKey: serverKey}
}

func (d *DeviceChannel) Send(endpoint model.PushEndpoint, message model.PushMessage) error {
	payload := map[string]interface{}{
		"to": endpoint.Address,
		"notification": map[string]string{
			"title": message.Title,
			"body":  message.Body,
		},
		"data": message.Data,
	}
	body, err := request.ToJsonReq(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, d.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "key="+d.serverKey)

	resp, err := request.Call(req, nil)
	if err != nil {
		return errors.Wrap(err, "device push failed")
	}
	return classify(resp.StatusCode)
}

// WebChannel submits to the web-push provider using the stored browser
// subscription (endpoint URL plus its p256dh/auth keys).
type WebChannel struct {
	url        string
	vapidToken string
}

func NewWebChannel(url, vapidToken string) *WebChannel {
	return &WebChannel{url: url, vapidToken: vapidToken}
}

func (w *WebChannel) Send(endpoint model.PushEndpoint, message model.PushMessage) error {
	payload := map[string]interface{}{
		"subscription": map[string]interface{}{
			"endpoint": endpoint.Address,
			"keys": map[string]string{
				"p256dh": endpoint.P256dh,
				"auth":   endpoint.Auth,
			},
		},
		"title": message.Title,
		"body":  message.Body,
		"data":  message.Data,
	}
	body, err := request.ToJsonReq(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, w.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.vapidToken)

	resp, err := request.Call(req, nil)
	if err != nil {
		return errors.Wrap(err, "web push failed")
	}
	return classify(resp.StatusCode)
}

// classify maps a provider status code to the channel contract. 404/410 mean
// the endpoint no longer exists; everything else non-2xx is transient.
func classify(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		return ErrEndpointGone
	default:
		return errors.Errorf("push provider returned status %d", statusCode)
	}
}
