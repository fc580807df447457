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

func TestGetOrder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"order_id", "tracking_id", "buyer_id", "status", "payment_status", "amount", "currency", "created_at", "meta_data"}).
		AddRow("ord_1", "trk_1", "usr_1", model.OrderStatusPending, model.PaymentStatusPending, int64(45000), "NGN", time.Now(), []byte(`{"channel":"app"}`))

	mock.ExpectQuery("SELECT order_id, tracking_id, buyer_id").
		WithArgs("ord_1").
		WillReturnRows(rows)

	order, err := ds.GetOrder(context.Background(), "ord_1")
	assert.NoError(t, err)
	assert.Equal(t, "ord_1", order.OrderID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "app", order.MetaData["channel"])
}

func TestGetOrder_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT order_id, tracking_id, buyer_id").
		WithArgs("ord_missing").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	_, err = ds.GetOrder(context.Background(), "ord_missing")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestUpdateOrderStatus_Moves(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE orders").
		WithArgs("ord_1", model.OrderStatusPending, model.OrderStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	moved, err := ds.UpdateOrderStatus(context.Background(), "ord_1", model.OrderStatusPending, model.OrderStatusConfirmed)
	assert.NoError(t, err)
	assert.True(t, moved)
}

func TestUpdateOrderStatus_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE orders").
		WithArgs("ord_1", model.OrderStatusPending, model.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := ds.UpdateOrderStatus(context.Background(), "ord_1", model.OrderStatusPending, model.OrderStatusCancelled)
	assert.NoError(t, err)
	assert.False(t, moved)
}

func TestGetOrderSupplierIDs_Distinct(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"supplier_id"}).
		AddRow("sup_1").
		AddRow("sup_2")

	mock.ExpectQuery("SELECT DISTINCT supplier_id").
		WithArgs("ord_1").
		WillReturnRows(rows)

	suppliers, err := ds.GetOrderSupplierIDs(context.Background(), "ord_1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"sup_1", "sup_2"}, suppliers)
}

func TestUpdateBookingStatus_Moves(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE bookings").
		WithArgs("bkg_1", model.BookingStatusConfirmed, model.BookingStatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	moved, err := ds.UpdateBookingStatus(context.Background(), "bkg_1", model.BookingStatusConfirmed, model.BookingStatusInProgress)
	assert.NoError(t, err)
	assert.True(t, moved)
}
