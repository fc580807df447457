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

// PaymentOutcomeResult reports what a reconciliation call actually did.
// Applied is false when the payment was already terminal, which is the
// signal callers use to suppress duplicate side effects.
type PaymentOutcomeResult struct {
	Payment     *model.Payment
	Applied     bool
	OrderID     string
	OrderStatus string
	OrderMoved  bool
}

func scanPayment(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Payment, error) {
	p := &model.Payment{}
	var verifiedAt sql.NullTime
	err := scanner.Scan(&p.PaymentID, &p.OrderID, &p.Method, &p.GatewayReference, &p.Status, &p.Amount, &p.Currency, &verifiedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		p.VerifiedAt = &verifiedAt.Time
	}
	return p, nil
}

func (d Datasource) RecordPayment(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	if p.PaymentID == "" {
		p.PaymentID = model.GenerateUUIDWithSuffix("pay")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO payments (payment_id, order_id, method, gateway_reference, status, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.PaymentID, p.OrderID, p.Method, p.GatewayReference, p.Status, p.Amount, p.Currency, p.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record payment", err)
	}

	return p, nil
}

func (d Datasource) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, order_id, method, gateway_reference, status, amount, currency, verified_at, created_at
		FROM payments
		WHERE gateway_reference = $1
	`, reference)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment with reference '%s' not found", reference), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment", err)
	}
	return p, nil
}

func (d Datasource) GetLatestPaymentForOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, order_id, method, gateway_reference, status, amount, currency, verified_at, created_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("No payment found for order '%s'", orderID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment", err)
	}
	return p, nil
}

// ApplyPaymentOutcome is the single convergence point for the webhook,
// poll-verify and manual COD entry points. The whole check-then-act
// sequence runs inside one transaction with the payment row locked, so
// whichever concurrent caller lands first wins and every later caller
// observes the terminal state and does nothing.
func (d Datasource) ApplyPaymentOutcome(ctx context.Context, reference string, outcome string) (*PaymentOutcomeResult, error) {
	ctx, span := otel.Tracer("payment.database").Start(ctx, "Applying payment outcome")
	defer span.End()

	if outcome != model.PaymentCompleted && outcome != model.PaymentFailed {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown payment outcome '%s'", outcome), nil)
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `
		SELECT payment_id, order_id, method, gateway_reference, status, amount, currency, verified_at, created_at
		FROM payments
		WHERE gateway_reference = $1
		FOR UPDATE
	`, reference)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment with reference '%s' not found", reference), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment", err)
	}

	// Terminal states are sticky. Returning the existing row unchanged is
	// what makes webhook redelivery and verify races invisible upstream.
	if model.PaymentTerminal(p.Status) {
		if err := tx.Commit(); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
		}
		return &PaymentOutcomeResult{Payment: p, Applied: false, OrderID: p.OrderID, OrderStatus: ""}, nil
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, verified_at = $3
		WHERE payment_id = $1
	`, p.PaymentID, outcome, now)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update payment status", err)
	}
	p.Status = outcome
	p.VerifiedAt = &now

	result := &PaymentOutcomeResult{Payment: p, Applied: true, OrderID: p.OrderID}

	if outcome == model.PaymentFailed {
		// The order's business status stays untouched so the buyer can
		// retry; only the payment slot records the failure.
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET payment_status = $2
			WHERE order_id = $1 AND payment_status = $3
		`, p.OrderID, model.PaymentStatusFailed, model.PaymentStatusPending)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update order payment status", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
		}
		return result, nil
	}

	var orderStatus string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE order_id = $1 FOR UPDATE
	`, p.OrderID).Scan(&orderStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Order with ID '%s' not found", p.OrderID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve order status", err)
	}
	result.OrderStatus = orderStatus

	if target, ok := model.PaidOrderTarget(orderStatus); ok {
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET status = $2, payment_status = $3
			WHERE order_id = $1 AND status = $4
		`, p.OrderID, target, model.PaymentStatusPaid, orderStatus)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to advance order status", err)
		}
		result.OrderStatus = target
		result.OrderMoved = true
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET payment_status = $2
			WHERE order_id = $1
		`, p.OrderID, model.PaymentStatusPaid)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update order payment status", err)
		}
	}

	// Trade-ins linked to the order settle with the payment, in the same
	// transaction.
	_, err = tx.ExecContext(ctx, `
		UPDATE trade_ins
		SET status = $2
		WHERE order_id = $1 AND status <> $2
	`, p.OrderID, model.TradeInSettled)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to settle trade-ins", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE trade_in_offers
		SET status = $2
		WHERE trade_in_id IN (SELECT trade_in_id FROM trade_ins WHERE order_id = $1) AND status <> $2
	`, p.OrderID, model.TradeInSettled)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to settle trade-in offers", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return result, nil
}
