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

package apierror

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrNotFound:          http.StatusNotFound,
		ErrForbidden:         http.StatusForbidden,
		ErrInvalidTransition: http.StatusUnprocessableEntity,
		ErrUnprocessable:     http.StatusUnprocessableEntity,
		ErrConflict:          http.StatusConflict,
		ErrInvalidSignature:  http.StatusUnauthorized,
		ErrUpstreamFailure:   http.StatusBadGateway,
		ErrBadRequest:        http.StatusBadRequest,
		ErrInvalidInput:      http.StatusBadRequest,
		ErrInternalServer:    http.StatusInternalServerError,
	}

	for code, want := range cases {
		err := NewAPIError(code, "message", nil)
		assert.Equal(t, want, MapErrorToHTTPStatus(err))
	}
}

func TestMapErrorToHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(errors.New("boom")))
}

func TestIs(t *testing.T) {
	err := NewAPIError(ErrConflict, "status changed", nil)
	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := errors.Wrap(err, "transitioning order")
	assert.True(t, Is(wrapped, ErrConflict))

	assert.False(t, Is(errors.New("boom"), ErrConflict))
}

func TestErrorString(t *testing.T) {
	err := NewAPIError(ErrForbidden, "not your order", nil)
	assert.Equal(t, "FORBIDDEN: not your order", err.Error())
}
