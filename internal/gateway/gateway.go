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

// Package gateway is the thin client for the payment gateway collaborator.
// The tracker never initiates charges; it only verifies outcomes by
// reference and authenticates inbound webhook payloads.
package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/partslane/fulfillment/internal/request"
)

// Client talks to the gateway's verification endpoint.
type Client struct {
	baseURL string
	secret  string
}

func NewClient(baseURL, secret string) *Client {
	return &Client{baseURL: baseURL, secret: secret}
}

// verifyResponse mirrors the gateway's verify-by-reference envelope.
type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// Verify calls the gateway's verification endpoint for a reference.
// It returns whether the charge succeeded. A transport or non-2xx failure
// is returned as an error so the caller can surface UPSTREAM_FAILURE and
// leave the payment untouched.
func (c *Client) Verify(reference string) (bool, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	var body verifyResponse
	resp, err := request.Call(req, &body)
	if err != nil {
		return false, errors.Wrap(err, "gateway verify call failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, errors.Errorf("gateway verify returned status %d", resp.StatusCode)
	}

	return body.Status && body.Data.Status == "success", nil
}

// ValidSignature checks the gateway's webhook signature: hex-encoded
// HMAC-SHA512 of the raw request body under the shared secret.
func ValidSignature(rawBody []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
