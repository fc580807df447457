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

package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/partslane/fulfillment/config"
	"github.com/partslane/fulfillment/database"
	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/internal/gateway"
	"github.com/partslane/fulfillment/model"
)

// WebhookEvent is the envelope the payment gateway delivers. Only the
// charge events matter here; anything else is acknowledged and ignored.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

const (
	webhookChargeSuccess = "charge.success"
	webhookChargeFailed  = "charge.failed"
)

// applyPaymentOutcome funnels every reconciliation entry point through the
// datasource's idempotent apply and handles the shared aftermath: cache
// invalidation and buyer notification, both skipped when the apply was a
// no-op.
func (f *Fulfillment) applyPaymentOutcome(ctx context.Context, reference, outcome string) (*database.PaymentOutcomeResult, error) {
	result, err := f.datasource.ApplyPaymentOutcome(ctx, reference, outcome)
	if err != nil {
		return nil, err
	}
	if !result.Applied {
		return result, nil
	}

	order, err := f.datasource.GetOrder(ctx, result.OrderID)
	if err != nil {
		logrus.Errorf("failed to load order %s after payment apply: %v", result.OrderID, err)
		return result, nil
	}

	title := "Payment update"
	body := fmt.Sprintf("Payment for order %s failed", order.TrackingID)
	if outcome == model.PaymentCompleted {
		body = fmt.Sprintf("Payment for order %s confirmed", order.TrackingID)
	}
	f.notifyUsers(ctx, []string{order.BuyerID}, "payment", title, body,
		map[string]string{"order_id": order.OrderID, "reference": reference, "outcome": outcome})

	if result.OrderMoved {
		f.notifyOrderParties(ctx, order, result.OrderStatus)
	}

	return result, nil
}

// HandleWebhookEvent is the gateway-push entry point. The raw body is
// authenticated with HMAC-SHA512 against the shared webhook secret before
// anything is parsed; an unverifiable delivery is rejected outright.
func (f *Fulfillment) HandleWebhookEvent(ctx context.Context, rawBody []byte, signature string) (*database.PaymentOutcomeResult, error) {
	ctx, span := otel.Tracer("payment.service").Start(ctx, "Handling gateway webhook")
	defer span.End()

	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if !gateway.ValidSignature(rawBody, signature, configuration.Gateway.WebhookSecret) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidSignature, "Webhook signature verification failed", nil)
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Malformed webhook payload", err)
	}

	switch event.Event {
	case webhookChargeSuccess:
		return f.applyPaymentOutcome(ctx, event.Data.Reference, model.PaymentCompleted)
	case webhookChargeFailed:
		return f.applyPaymentOutcome(ctx, event.Data.Reference, model.PaymentFailed)
	default:
		logrus.Infof("ignoring webhook event %q", event.Event)
		return nil, nil
	}
}

// VerifyPayment is the poll entry point: ask the gateway for the charge's
// current state and apply whatever it reports. A gateway that cannot be
// reached is an upstream failure, not a payment failure.
func (f *Fulfillment) VerifyPayment(ctx context.Context, reference string) (*database.PaymentOutcomeResult, error) {
	ctx, span := otel.Tracer("payment.service").Start(ctx, "Verifying payment with gateway")
	defer span.End()

	// Look the payment up first so an unknown reference is NOT_FOUND here
	// rather than a gateway round trip.
	if _, err := f.datasource.GetPaymentByReference(ctx, reference); err != nil {
		return nil, err
	}

	success, err := f.gateway.Verify(reference)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrUpstreamFailure, "Payment gateway verification failed", err)
	}

	outcome := model.PaymentFailed
	if success {
		outcome = model.PaymentCompleted
	}
	return f.applyPaymentOutcome(ctx, reference, outcome)
}

// ConfirmCODPayment is the manual entry point for cash on delivery. Only an
// admin may confirm, and only while the order is actually waiting on a COD
// confirmation.
func (f *Fulfillment) ConfirmCODPayment(ctx context.Context, actor model.Actor, orderID string) (*database.PaymentOutcomeResult, error) {
	if !actor.IsAdmin() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only an admin may confirm a cash-on-delivery payment", nil)
	}

	order, err := f.datasource.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPendingCOD {
		return nil, apierror.NewAPIError(apierror.ErrUnprocessable, fmt.Sprintf("Order '%s' is not awaiting COD confirmation", orderID), nil)
	}

	payment, err := f.datasource.GetLatestPaymentForOrder(ctx, orderID)
	if apierror.Is(err, apierror.ErrNotFound) {
		// COD orders may reach confirmation without a gateway charge ever
		// being initiated; record the cash payment here.
		payment, err = f.datasource.RecordPayment(ctx, &model.Payment{
			OrderID:          orderID,
			Method:           model.PaymentMethodCOD,
			GatewayReference: model.GenerateUUIDWithSuffix("cod"),
			Amount:           order.Amount,
			Currency:         order.Currency,
		})
	}
	if err != nil {
		return nil, err
	}
	if payment.Method != model.PaymentMethodCOD {
		return nil, apierror.NewAPIError(apierror.ErrUnprocessable, fmt.Sprintf("Latest payment for order '%s' is not cash on delivery", orderID), nil)
	}

	return f.applyPaymentOutcome(ctx, payment.GatewayReference, model.PaymentCompleted)
}

func (f *Fulfillment) GetPayment(ctx context.Context, reference string) (*model.Payment, error) {
	return f.datasource.GetPaymentByReference(ctx, reference)
}
