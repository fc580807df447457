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

	"github.com/sirupsen/logrus"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

// AssignProvider binds a verified, approved provider to an order or booking
// and moves its tracking record to ASSIGNED. Admins may assign anywhere; a
// supplier may assign a logistics provider to an order that carries their
// items. Re-assignment replaces the previous provider outright.
func (f *Fulfillment) AssignProvider(ctx context.Context, actor model.Actor, subjectID, subjectType, providerID string) (*model.TrackingRecord, error) {
	var requesterID string
	switch subjectType {
	case model.SubjectTypeOrder:
		order, err := f.datasource.GetOrder(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		requesterID = order.BuyerID
		if err := f.checkOrderOwnership(ctx, actor, order); err != nil {
			return nil, err
		}
		if !actor.IsAdmin() && actor.Role != model.RoleSupplier {
			return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only an admin or a supplier on the order may assign a provider", nil)
		}
	case model.SubjectTypeBooking:
		booking, err := f.datasource.GetBooking(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		requesterID = booking.RequesterID
		if !actor.IsAdmin() {
			return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only an admin may assign a provider to a booking", nil)
		}
	default:
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown subject type '%s'", subjectType), nil)
	}

	provider, err := f.datasource.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.Eligible() {
		return nil, apierror.NewAPIError(apierror.ErrUnprocessable, fmt.Sprintf("Provider '%s' is not verified and approved", providerID), nil)
	}

	record, err := f.datasource.AssignProviderToTracking(ctx, subjectID, subjectType, providerID)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Delete(ctx, trackingCacheKey(subjectID)); err != nil {
		logrus.Warnf("failed to invalidate tracking cache for %s: %v", subjectID, err)
	}

	f.notifyUsers(ctx, []string{providerID, requesterID}, "assignment", "Provider assigned",
		fmt.Sprintf("%s has been assigned to %s %s", provider.Name, subjectType, subjectID),
		map[string]string{"subject_id": subjectID, "subject_type": subjectType, "provider_id": providerID})

	return record, nil
}
