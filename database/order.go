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

func (d Datasource) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT order_id, tracking_id, buyer_id, status, payment_status, amount, currency, created_at, meta_data
		FROM orders
		WHERE order_id = $1
	`, id)

	order := &model.Order{}
	var metaDataJSON []byte
	err := row.Scan(&order.OrderID, &order.TrackingID, &order.BuyerID, &order.Status, &order.PaymentStatus, &order.Amount, &order.Currency, &order.CreatedAt, &metaDataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Order with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve order", err)
	}

	if len(metaDataJSON) > 0 {
		err = json.Unmarshal(metaDataJSON, &order.MetaData)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return order, nil
}

// UpdateOrderStatus conditionally advances an order's status. The WHERE
// clause carries the expected current status so the write is a
// compare-and-swap: when another caller moved the order first, zero rows
// match and false is returned with the stored status untouched.
func (d Datasource) UpdateOrderStatus(ctx context.Context, id string, from string, to string) (bool, error) {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE orders
		SET status = $3
		WHERE order_id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update order status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}

// GetOrderSupplierIDs returns every distinct supplier represented in the
// order's line items. Deduplicated by supplier identity, not by line item,
// so a supplier with three items in the order is notified once.
func (d Datasource) GetOrderSupplierIDs(ctx context.Context, orderID string) ([]string, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT DISTINCT supplier_id
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve order suppliers", err)
	}
	defer rows.Close()

	var supplierIDs []string
	for rows.Next() {
		var supplierID string
		if err := rows.Scan(&supplierID); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan supplier ID", err)
		}
		supplierIDs = append(supplierIDs, supplierID)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over suppliers", err)
	}

	return supplierIDs, nil
}
