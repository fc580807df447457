package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func scanTrackingRecord(row *sql.Row) (*model.TrackingRecord, error) {
	record := &model.TrackingRecord{}
	var providerID, location sql.NullString
	var eta sql.NullTime
	err := row.Scan(&record.TrackingID, &record.SubjectID, &record.SubjectType, &record.Status, &providerID, &location, &eta, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.AssignedProviderID = providerID.String
	record.CurrentLocation = location.String
	if eta.Valid {
		record.EstimatedArrival = &eta.Time
	}
	return record, nil
}

func (d Datasource) GetTrackingRecord(ctx context.Context, subjectID string) (*model.TrackingRecord, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT tracking_id, subject_id, subject_type, status, assigned_provider_id, current_location, estimated_arrival, created_at, updated_at
		FROM tracking_records
		WHERE subject_id = $1
	`, subjectID)

	record, err := scanTrackingRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Tracking record for subject '%s' not found", subjectID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tracking record", err)
	}
	return record, nil
}

func (d Datasource) GetTracking(ctx context.Context, subjectID string) (*model.Tracking, error) {
	record, err := d.GetTrackingRecord(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT event_id, tracking_id, status, location, message, created_at
		FROM tracking_events
		WHERE tracking_id = $1
		ORDER BY created_at ASC
	`, record.TrackingID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tracking events", err)
	}
	defer rows.Close()

	tracking := &model.Tracking{TrackingRecord: *record, Events: []model.TrackingEvent{}}
	for rows.Next() {
		event := model.TrackingEvent{}
		var location sql.NullString
		err = rows.Scan(&event.EventID, &event.TrackingID, &event.Status, &location, &event.Message, &event.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan tracking event", err)
		}
		event.Location = location.String
		tracking.Events = append(tracking.Events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over tracking events", err)
	}

	return tracking, nil
}

// UpsertTrackingRecord creates the record on first use and thereafter
// updates the live status. Location and ETA columns are coalesced so a
// caller that omits them does not blank out the last known values.
func (d Datasource) UpsertTrackingRecord(ctx context.Context, record *model.TrackingRecord) (*model.TrackingRecord, error) {
	ctx, span := otel.Tracer("tracking.database").Start(ctx, "Upserting tracking record")
	defer span.End()

	if record.TrackingID == "" {
		record.TrackingID = model.GenerateUUIDWithSuffix("trk")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()

	var location interface{}
	if record.CurrentLocation != "" {
		location = record.CurrentLocation
	}
	var eta interface{}
	if record.EstimatedArrival != nil {
		eta = *record.EstimatedArrival
	}

	row := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tracking_records (tracking_id, subject_id, subject_type, status, current_location, estimated_arrival, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject_id) DO UPDATE SET
			status = EXCLUDED.status,
			current_location = COALESCE(EXCLUDED.current_location, tracking_records.current_location),
			estimated_arrival = COALESCE(EXCLUDED.estimated_arrival, tracking_records.estimated_arrival),
			updated_at = EXCLUDED.updated_at
		RETURNING tracking_id, subject_id, subject_type, status, assigned_provider_id, current_location, estimated_arrival, created_at, updated_at
	`, record.TrackingID, record.SubjectID, record.SubjectType, record.Status, location, eta, record.CreatedAt, record.UpdatedAt)

	saved, err := scanTrackingRecord(row)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to upsert tracking record", err)
	}
	return saved, nil
}

func (d Datasource) RecordTrackingEvent(ctx context.Context, event *model.TrackingEvent) (*model.TrackingEvent, error) {
	if event.EventID == "" {
		event.EventID = model.GenerateUUIDWithSuffix("evt")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var location interface{}
	if event.Location != "" {
		location = event.Location
	}

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO tracking_events (event_id, tracking_id, status, location, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.EventID, event.TrackingID, event.Status, location, event.Message, event.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record tracking event", err)
	}

	return event, nil
}

// AssignProviderToTracking binds a provider to the subject's tracking
// record, creating the record when it does not exist yet. Re-assignment is
// last-write-wins.
func (d Datasource) AssignProviderToTracking(ctx context.Context, subjectID, subjectType, providerID string) (*model.TrackingRecord, error) {
	now := time.Now()
	row := d.Conn.QueryRowContext(ctx, `
		INSERT INTO tracking_records (tracking_id, subject_id, subject_type, status, assigned_provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (subject_id) DO UPDATE SET
			assigned_provider_id = EXCLUDED.assigned_provider_id,
			updated_at = EXCLUDED.updated_at
		RETURNING tracking_id, subject_id, subject_type, status, assigned_provider_id, current_location, estimated_arrival, created_at, updated_at
	`, model.GenerateUUIDWithSuffix("trk"), subjectID, subjectType, model.TrackingStatusAssigned, providerID, now)

	saved, err := scanTrackingRecord(row)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to assign provider to tracking record", err)
	}
	return saved, nil
}
