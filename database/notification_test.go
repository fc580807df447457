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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func TestRecordNotification_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "usr_1", "order_status", "Order update", "Your order is on the way", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	n, err := ds.RecordNotification(context.Background(), &model.Notification{
		UserID:  "usr_1",
		Type:    "order_status",
		Title:   "Order update",
		Message: "Your order is on the way",
		Data:    map[string]string{"order_id": "ord_1"},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, n.NotificationID)
}

func TestGetNotificationsForUser_DefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"notification_id", "user_id", "type", "title", "message", "data", "read", "created_at"}).
		AddRow("ntf_1", "usr_1", "order_status", "Order update", "Shipped", []byte(`{"order_id":"ord_1"}`), false, time.Now())

	mock.ExpectQuery("SELECT notification_id, user_id, type").
		WithArgs("usr_1", 50, 0).
		WillReturnRows(rows)

	notifications, err := ds.GetNotificationsForUser(context.Background(), "usr_1", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, "ord_1", notifications[0].Data["order_id"])
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE notifications").
		WithArgs("ntf_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.MarkNotificationRead(context.Background(), "ntf_missing")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestRecordDeviceToken_Reactivates(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO device_tokens").
		WithArgs(sqlmock.AnyArg(), "usr_1", "tok_abc", "android", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token, err := ds.RecordDeviceToken(context.Background(), &model.DeviceToken{
		UserID:   "usr_1",
		Token:    "tok_abc",
		Platform: "android",
	})
	assert.NoError(t, err)
	assert.True(t, token.IsActive)
}

func TestGetActiveDeviceTokens_FiltersInactive(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"token_id", "user_id", "token", "platform", "is_active", "created_at"}).
		AddRow("dvt_1", "usr_1", "tok_abc", "android", true, time.Now())

	mock.ExpectQuery("SELECT token_id, user_id, token").
		WithArgs("usr_1").
		WillReturnRows(rows)

	tokens, err := ds.GetActiveDeviceTokens(context.Background(), "usr_1")
	assert.NoError(t, err)
	assert.Len(t, tokens, 1)
	assert.Equal(t, "tok_abc", tokens[0].Token)
}

func TestDeactivateDeviceToken_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE device_tokens").
		WithArgs("tok_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.DeactivateDeviceToken(context.Background(), "tok_abc")
	assert.NoError(t, err)
}

func TestDeletePushSubscription_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("DELETE FROM push_subscriptions").
		WithArgs("https://push.example.com/ep_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.DeletePushSubscription(context.Background(), "https://push.example.com/ep_1")
	assert.NoError(t, err)
}
