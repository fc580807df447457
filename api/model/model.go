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

package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/partslane/fulfillment/model"
)

// TransitionRequest asks the state machine to move an order or booking to a
// target status.
type TransitionRequest struct {
	Status string `json:"status"`
}

func (r TransitionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// TrackingUpdateRequest is a provider's status report.
type TrackingUpdateRequest struct {
	Status           string     `json:"status"`
	Location         string     `json:"location"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	Message          string     `json:"message"`
}

func (r TrackingUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 500)),
	)
}

// AssignProviderRequest binds a provider to an order or booking.
type AssignProviderRequest struct {
	SubjectType string `json:"subject_type"`
	ProviderID  string `json:"provider_id"`
}

func (r AssignProviderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubjectType, validation.Required, validation.In(model.SubjectTypeOrder, model.SubjectTypeBooking)),
		validation.Field(&r.ProviderID, validation.Required),
	)
}

// RegisterDeviceTokenRequest registers a mobile push token for the caller.
type RegisterDeviceTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (r RegisterDeviceTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Platform, validation.Required, validation.In("android", "ios")),
	)
}

func (r RegisterDeviceTokenRequest) ToDeviceToken(userID string) *model.DeviceToken {
	return &model.DeviceToken{
		UserID:   userID,
		Token:    r.Token,
		Platform: r.Platform,
	}
}

// RegisterPushSubscriptionRequest registers a browser push subscription for
// the caller.
type RegisterPushSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

func (r RegisterPushSubscriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Endpoint, validation.Required),
		validation.Field(&r.P256dh, validation.Required),
		validation.Field(&r.Auth, validation.Required),
	)
}

func (r RegisterPushSubscriptionRequest) ToPushSubscription(userID string) *model.PushSubscription {
	return &model.PushSubscription{
		UserID:   userID,
		Endpoint: r.Endpoint,
		P256dh:   r.P256dh,
		Auth:     r.Auth,
	}
}
