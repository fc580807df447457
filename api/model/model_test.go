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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partslane/fulfillment/model"
)

func TestTransitionRequestValidation(t *testing.T) {
	assert.Error(t, TransitionRequest{}.Validate())
	assert.NoError(t, TransitionRequest{Status: model.OrderStatusConfirmed}.Validate())
}

func TestTrackingUpdateRequestValidation(t *testing.T) {
	assert.Error(t, TrackingUpdateRequest{}.Validate())
	assert.Error(t, TrackingUpdateRequest{Status: model.TrackingStatusEnRoute}.Validate())
	assert.NoError(t, TrackingUpdateRequest{Status: model.TrackingStatusEnRoute, Location: "Ikeja", Message: "On the way"}.Validate())
}

func TestAssignProviderRequestValidation(t *testing.T) {
	assert.Error(t, AssignProviderRequest{}.Validate())
	assert.Error(t, AssignProviderRequest{SubjectType: "warehouse", ProviderID: "prv_1"}.Validate())
	assert.NoError(t, AssignProviderRequest{SubjectType: model.SubjectTypeOrder, ProviderID: "prv_1"}.Validate())
	assert.NoError(t, AssignProviderRequest{SubjectType: model.SubjectTypeBooking, ProviderID: "prv_1"}.Validate())
}

func TestRegisterDeviceTokenRequestValidation(t *testing.T) {
	assert.Error(t, RegisterDeviceTokenRequest{Token: "tok_a", Platform: "blackberry"}.Validate())
	assert.NoError(t, RegisterDeviceTokenRequest{Token: "tok_a", Platform: "ios"}.Validate())

	dt := RegisterDeviceTokenRequest{Token: "tok_a", Platform: "android"}.ToDeviceToken("usr_1")
	assert.Equal(t, "usr_1", dt.UserID)
	assert.Equal(t, "tok_a", dt.Token)
}

func TestRegisterPushSubscriptionRequestValidation(t *testing.T) {
	assert.Error(t, RegisterPushSubscriptionRequest{Endpoint: "https://browser.push/ep_1"}.Validate())
	assert.NoError(t, RegisterPushSubscriptionRequest{Endpoint: "https://browser.push/ep_1", P256dh: "key", Auth: "auth"}.Validate())

	sub := RegisterPushSubscriptionRequest{Endpoint: "https://browser.push/ep_1", P256dh: "key", Auth: "auth"}.ToPushSubscription("usr_1")
	assert.Equal(t, "usr_1", sub.UserID)
	assert.Equal(t, "https://browser.push/ep_1", sub.Endpoint)
}
