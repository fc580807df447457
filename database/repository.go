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

package database

import (
	"context"

	"github.com/partslane/fulfillment/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	order        // Order reads and conditional status writes
	booking      // Booking reads and conditional status writes
	tracking     // Tracking record and event operations
	payment      // Payment and reconciliation operations
	notification // In-app notifications and push endpoints
	provider     // Provider profiles
}

// order defines methods for handling orders.
type order interface {
	GetOrder(ctx context.Context, id string) (*model.Order, error)                      // Retrieves an order by ID
	UpdateOrderStatus(ctx context.Context, id string, from string, to string) (bool, error) // Conditionally moves status from -> to; false when the current status no longer matches
	GetOrderSupplierIDs(ctx context.Context, orderID string) ([]string, error)          // Distinct suppliers across the order's line items
}

// booking defines methods for handling bookings.
type booking interface {
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from string, to string) (bool, error)
}

// tracking defines methods for the live tracking projection and its history.
type tracking interface {
	GetTrackingRecord(ctx context.Context, subjectID string) (*model.TrackingRecord, error)                             // Live record only
	GetTracking(ctx context.Context, subjectID string) (*model.Tracking, error)                                         // Record plus ordered events
	UpsertTrackingRecord(ctx context.Context, record *model.TrackingRecord) (*model.TrackingRecord, error)              // Creates on first use, updates status/location/eta after
	RecordTrackingEvent(ctx context.Context, event *model.TrackingEvent) (*model.TrackingEvent, error)                  // Append-only
	AssignProviderToTracking(ctx context.Context, subjectID, subjectType, providerID string) (*model.TrackingRecord, error) // Sets assigned_provider_id, creating the record when absent
}

// payment defines methods for payment reconciliation.
type payment interface {
	RecordPayment(ctx context.Context, p *model.Payment) (*model.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error)
	GetLatestPaymentForOrder(ctx context.Context, orderID string) (*model.Payment, error)
	ApplyPaymentOutcome(ctx context.Context, reference string, outcome string) (*PaymentOutcomeResult, error) // The single idempotent apply path all entry points converge on
}

// notification defines methods for the in-app record and push endpoints.
type notification interface {
	RecordNotification(ctx context.Context, n *model.Notification) (*model.Notification, error)
	GetNotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	RecordDeviceToken(ctx context.Context, t *model.DeviceToken) (*model.DeviceToken, error)
	GetActiveDeviceTokens(ctx context.Context, userID string) ([]model.DeviceToken, error)
	DeactivateDeviceToken(ctx context.Context, token string) error
	RecordPushSubscription(ctx context.Context, s *model.PushSubscription) (*model.PushSubscription, error)
	GetActivePushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// provider defines methods for provider profiles.
type provider interface {
	GetProvider(ctx context.Context, id string) (*model.Provider, error)
}
