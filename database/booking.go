package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func (d Datasource) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT booking_id, type, requester_id, provider_id, status, description, created_at, meta_data
		FROM bookings
		WHERE booking_id = $1
	`, id)

	booking := &model.Booking{}
	var providerID sql.NullString
	var description sql.NullString
	var metaDataJSON []byte
	err := row.Scan(&booking.BookingID, &booking.Type, &booking.RequesterID, &providerID, &booking.Status, &description, &booking.CreatedAt, &metaDataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Booking with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve booking", err)
	}
	booking.ProviderID = providerID.String
	booking.Description = description.String

	if len(metaDataJSON) > 0 {
		err = json.Unmarshal(metaDataJSON, &booking.MetaData)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return booking, nil
}

// UpdateBookingStatus is the booking-side compare-and-swap, identical in
// shape to UpdateOrderStatus.
func (d Datasource) UpdateBookingStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE bookings
		SET status = $3
		WHERE booking_id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update booking status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}
