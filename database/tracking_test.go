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

func trackingRecordRows(status, providerID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"tracking_id", "subject_id", "subject_type", "status", "assigned_provider_id", "current_location", "estimated_arrival", "created_at", "updated_at"}).
		AddRow("trk_1", "ord_1", model.SubjectTypeOrder, status, providerID, "Ikeja", nil, time.Now(), time.Now())
}

func TestGetTrackingRecord_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT tracking_id, subject_id, subject_type").
		WithArgs("ord_missing").
		WillReturnRows(sqlmock.NewRows([]string{"tracking_id"}))

	_, err = ds.GetTrackingRecord(context.Background(), "ord_missing")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestGetTracking_RecordWithEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT tracking_id, subject_id, subject_type").
		WithArgs("ord_1").
		WillReturnRows(trackingRecordRows(model.TrackingStatusEnRoute, "prv_1"))

	eventRows := sqlmock.NewRows([]string{"event_id", "tracking_id", "status", "location", "message", "created_at"}).
		AddRow("evt_1", "trk_1", model.TrackingStatusPickedUp, "Yaba", "Package picked up", time.Now().Add(-time.Hour)).
		AddRow("evt_2", "trk_1", model.TrackingStatusEnRoute, "Ikeja", "On the way", time.Now())

	mock.ExpectQuery("SELECT event_id, tracking_id, status").
		WithArgs("trk_1").
		WillReturnRows(eventRows)

	tracking, err := ds.GetTracking(context.Background(), "ord_1")
	assert.NoError(t, err)
	assert.Equal(t, model.TrackingStatusEnRoute, tracking.Status)
	assert.Len(t, tracking.Events, 2)
	assert.Equal(t, model.TrackingStatusPickedUp, tracking.Events[0].Status)
}

func TestUpsertTrackingRecord_ReturnsSavedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("INSERT INTO tracking_records").
		WillReturnRows(trackingRecordRows(model.TrackingStatusPickedUp, "prv_1"))

	record, err := ds.UpsertTrackingRecord(context.Background(), &model.TrackingRecord{
		SubjectID:   "ord_1",
		SubjectType: model.SubjectTypeOrder,
		Status:      model.TrackingStatusPickedUp,
	})
	assert.NoError(t, err)
	assert.Equal(t, "trk_1", record.TrackingID)
	assert.Equal(t, model.TrackingStatusPickedUp, record.Status)
}

func TestRecordTrackingEvent_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO tracking_events").
		WithArgs(sqlmock.AnyArg(), "trk_1", model.TrackingStatusArrived, "Lekki", "Arrived at drop-off", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event, err := ds.RecordTrackingEvent(context.Background(), &model.TrackingEvent{
		TrackingID: "trk_1",
		Status:     model.TrackingStatusArrived,
		Location:   "Lekki",
		Message:    "Arrived at drop-off",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
}

func TestAssignProviderToTracking_CreatesRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("INSERT INTO tracking_records").
		WillReturnRows(trackingRecordRows(model.TrackingStatusAssigned, "prv_1"))

	record, err := ds.AssignProviderToTracking(context.Background(), "ord_1", model.SubjectTypeOrder, "prv_1")
	assert.NoError(t, err)
	assert.Equal(t, "prv_1", record.AssignedProviderID)
	assert.Equal(t, model.TrackingStatusAssigned, record.Status)
}
