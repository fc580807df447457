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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/partslane/fulfillment/database"
	"github.com/partslane/fulfillment/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Order methods

func (m *MockDataSource) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockDataSource) UpdateOrderStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) GetOrderSupplierIDs(ctx context.Context, orderID string) ([]string, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Booking methods

func (m *MockDataSource) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockDataSource) UpdateBookingStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// Tracking methods

func (m *MockDataSource) GetTrackingRecord(ctx context.Context, subjectID string) (*model.TrackingRecord, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackingRecord), args.Error(1)
}

func (m *MockDataSource) GetTracking(ctx context.Context, subjectID string) (*model.Tracking, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tracking), args.Error(1)
}

func (m *MockDataSource) UpsertTrackingRecord(ctx context.Context, record *model.TrackingRecord) (*model.TrackingRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackingRecord), args.Error(1)
}

func (m *MockDataSource) RecordTrackingEvent(ctx context.Context, event *model.TrackingEvent) (*model.TrackingEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackingEvent), args.Error(1)
}

func (m *MockDataSource) AssignProviderToTracking(ctx context.Context, subjectID, subjectType, providerID string) (*model.TrackingRecord, error) {
	args := m.Called(ctx, subjectID, subjectType, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackingRecord), args.Error(1)
}

// Payment methods

func (m *MockDataSource) RecordPayment(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockDataSource) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockDataSource) GetLatestPaymentForOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockDataSource) ApplyPaymentOutcome(ctx context.Context, reference string, outcome string) (*database.PaymentOutcomeResult, error) {
	args := m.Called(ctx, reference, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.PaymentOutcomeResult), args.Error(1)
}

// Notification methods

func (m *MockDataSource) RecordNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockDataSource) GetNotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockDataSource) MarkNotificationRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDataSource) RecordDeviceToken(ctx context.Context, t *model.DeviceToken) (*model.DeviceToken, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeviceToken), args.Error(1)
}

func (m *MockDataSource) GetActiveDeviceTokens(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeviceToken), args.Error(1)
}

func (m *MockDataSource) DeactivateDeviceToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockDataSource) RecordPushSubscription(ctx context.Context, s *model.PushSubscription) (*model.PushSubscription, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PushSubscription), args.Error(1)
}

func (m *MockDataSource) GetActivePushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PushSubscription), args.Error(1)
}

func (m *MockDataSource) DeletePushSubscription(ctx context.Context, endpoint string) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

// Provider methods

func (m *MockDataSource) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Provider), args.Error(1)
}
