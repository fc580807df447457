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

package request

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestToJsonReq(t *testing.T) {
	buf, err := ToJsonReq(map[string]string{"reference": "ref_1"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"reference":"ref_1"}`, buf.String())
}

func TestCall_DecodesResponse(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://api.test/resource",
		httpmock.NewStringResponder(http.StatusOK, `{"status":"ok"}`))

	req, err := http.NewRequest(http.MethodGet, "https://api.test/resource", nil)
	assert.NoError(t, err)

	var body struct {
		Status string `json:"status"`
	}
	resp, err := Call(req, &body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
}

func TestCall_NilResponseSkipsDecode(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "https://api.test/resource",
		httpmock.NewStringResponder(http.StatusAccepted, `not-json`))

	req, err := http.NewRequest(http.MethodPost, "https://api.test/resource", nil)
	assert.NoError(t, err)

	resp, err := Call(req, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
