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
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

// TransitionOrder moves an order to the target status on behalf of the
// acting user. The write is a compare-and-swap against the status the actor
// observed, so two concurrent transitions cannot both win: the loser gets a
// CONFLICT carrying the status that beat it there.
func (f *Fulfillment) TransitionOrder(ctx context.Context, actor model.Actor, orderID, target string) (*model.Order, error) {
	ctx, span := otel.Tracer("order.service").Start(ctx, "Transitioning order")
	defer span.End()

	if !model.ValidOrderStatus(target) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown order status '%s'", target), nil)
	}

	order, err := f.datasource.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !model.OrderEdgeExists(order.Status, target) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidTransition, fmt.Sprintf("Order cannot move from '%s' to '%s'", order.Status, target), nil)
	}
	if !model.OrderEdgeAllowed(order.Status, target, actor.Role) {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, fmt.Sprintf("Role '%s' may not move an order from '%s' to '%s'", actor.Role, order.Status, target), nil)
	}
	if err := f.checkOrderOwnership(ctx, actor, order); err != nil {
		return nil, err
	}

	moved, err := f.datasource.UpdateOrderStatus(ctx, orderID, order.Status, target)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Someone else moved the order between our read and our write.
		// Re-read so the conflict carries the winning status.
		current, err := f.datasource.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Order status changed to '%s' by another request", current.Status), current.Status)
	}
	order.Status = target

	f.notifyOrderParties(ctx, order, target)

	return order, nil
}

// checkOrderOwnership scopes non-admin actors to orders they are a party
// to: the buyer who placed it, or a supplier with a line item in it.
func (f *Fulfillment) checkOrderOwnership(ctx context.Context, actor model.Actor, order *model.Order) error {
	if actor.IsAdmin() {
		return nil
	}
	switch actor.Role {
	case model.RoleBuyer:
		if actor.ID != order.BuyerID {
			return apierror.NewAPIError(apierror.ErrForbidden, "Order belongs to another buyer", nil)
		}
	case model.RoleSupplier:
		supplierIDs, err := f.datasource.GetOrderSupplierIDs(ctx, order.OrderID)
		if err != nil {
			return err
		}
		for _, id := range supplierIDs {
			if id == actor.ID {
				return nil
			}
		}
		return apierror.NewAPIError(apierror.ErrForbidden, "Supplier has no items in this order", nil)
	}
	return nil
}

// notifyOrderParties tells the buyer and every distinct supplier about a
// status change. Failures here never fail the transition.
func (f *Fulfillment) notifyOrderParties(ctx context.Context, order *model.Order, status string) {
	recipients := []string{order.BuyerID}
	supplierIDs, err := f.datasource.GetOrderSupplierIDs(ctx, order.OrderID)
	if err == nil {
		recipients = append(recipients, supplierIDs...)
	}

	f.notifyUsers(ctx, recipients, "order_status", "Order update",
		fmt.Sprintf("Order %s is now %s", order.TrackingID, status),
		map[string]string{"order_id": order.OrderID, "status": status})
}

// TransitionBooking is the booking counterpart of TransitionOrder. Bookings
// are two-party, so the fan-out is the requester and the assigned provider.
func (f *Fulfillment) TransitionBooking(ctx context.Context, actor model.Actor, bookingID, target string) (*model.Booking, error) {
	if !model.ValidBookingStatus(target) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown booking status '%s'", target), nil)
	}

	booking, err := f.datasource.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !model.BookingEdgeExists(booking.Status, target) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidTransition, fmt.Sprintf("Booking cannot move from '%s' to '%s'", booking.Status, target), nil)
	}
	if !model.BookingEdgeAllowed(booking.Status, target, actor.Role) {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, fmt.Sprintf("Role '%s' may not move a booking from '%s' to '%s'", actor.Role, booking.Status, target), nil)
	}
	if err := checkBookingOwnership(actor, booking); err != nil {
		return nil, err
	}

	moved, err := f.datasource.UpdateBookingStatus(ctx, bookingID, booking.Status, target)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, err := f.datasource.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Booking status changed to '%s' by another request", current.Status), current.Status)
	}
	booking.Status = target

	recipients := []string{booking.RequesterID}
	if booking.ProviderID != "" {
		recipients = append(recipients, booking.ProviderID)
	}
	f.notifyUsers(ctx, recipients, "booking_status", "Booking update",
		fmt.Sprintf("Booking %s is now %s", booking.BookingID, target),
		map[string]string{"booking_id": booking.BookingID, "status": target})

	return booking, nil
}

func checkBookingOwnership(actor model.Actor, booking *model.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	switch actor.Role {
	case model.RoleBuyer:
		if actor.ID != booking.RequesterID {
			return apierror.NewAPIError(apierror.ErrForbidden, "Booking belongs to another requester", nil)
		}
	case model.RoleMechanic, model.RoleLogistics:
		if actor.ID != booking.ProviderID {
			return apierror.NewAPIError(apierror.ErrForbidden, "Booking is assigned to another provider", nil)
		}
	}
	return nil
}

func (f *Fulfillment) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return f.datasource.GetOrder(ctx, id)
}

func (f *Fulfillment) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return f.datasource.GetBooking(ctx, id)
}
