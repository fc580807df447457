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
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

const trackingCacheTTL = 5 * time.Minute

func trackingCacheKey(subjectID string) string {
	return fmt.Sprintf("tracking:%s", subjectID)
}

// TrackingUpdate is a provider's report from the ground: a new operational
// status, optionally with a location, an ETA and a free-form note.
type TrackingUpdate struct {
	Status           string
	Location         string
	EstimatedArrival *time.Time
	Message          string
}

// UpdateTrackingStatus records a provider report against the subject's
// tracking record. Only the assigned provider or an admin may report;
// every accepted report lands in the append-only event history as well as
// the live record.
func (f *Fulfillment) UpdateTrackingStatus(ctx context.Context, actor model.Actor, subjectID string, update TrackingUpdate) (*model.TrackingRecord, error) {
	ctx, span := otel.Tracer("tracking.service").Start(ctx, "Updating tracking status")
	defer span.End()

	if !model.ValidTrackingStatus(update.Status) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown tracking status '%s'", update.Status), nil)
	}
	if update.Message == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Tracking update message is required", nil)
	}

	record, err := f.datasource.GetTrackingRecord(ctx, subjectID)
	switch {
	case err == nil:
		if !actor.IsAdmin() && actor.ID != record.AssignedProviderID {
			return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only the assigned provider may report tracking updates", nil)
		}
	case apierror.Is(err, apierror.ErrNotFound) && actor.IsAdmin():
		// First report for this subject: an admin opens the record. No
		// provider can be assigned yet, so anyone else keeps the NotFound.
		subjectType, terr := f.resolveSubjectType(ctx, subjectID)
		if terr != nil {
			return nil, terr
		}
		record = &model.TrackingRecord{
			SubjectID:   subjectID,
			SubjectType: subjectType,
		}
	default:
		return nil, err
	}

	record.Status = update.Status
	record.CurrentLocation = update.Location
	record.EstimatedArrival = update.EstimatedArrival
	saved, err := f.datasource.UpsertTrackingRecord(ctx, record)
	if err != nil {
		return nil, err
	}

	_, err = f.datasource.RecordTrackingEvent(ctx, &model.TrackingEvent{
		TrackingID: saved.TrackingID,
		Status:     update.Status,
		Location:   update.Location,
		Message:    update.Message,
	})
	if err != nil {
		return nil, err
	}

	if err := f.cache.Delete(ctx, trackingCacheKey(subjectID)); err != nil {
		logrus.Warnf("failed to invalidate tracking cache for %s: %v", subjectID, err)
	}

	return saved, nil
}

// resolveSubjectType identifies what a subject ID refers to. A tracking
// record created on first use needs this; thereafter the stored record
// carries it.
func (f *Fulfillment) resolveSubjectType(ctx context.Context, subjectID string) (string, error) {
	if _, err := f.datasource.GetOrder(ctx, subjectID); err == nil {
		return model.SubjectTypeOrder, nil
	} else if !apierror.Is(err, apierror.ErrNotFound) {
		return "", err
	}
	if _, err := f.datasource.GetBooking(ctx, subjectID); err == nil {
		return model.SubjectTypeBooking, nil
	} else if !apierror.Is(err, apierror.ErrNotFound) {
		return "", err
	}
	return "", apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("No order or booking with ID '%s'", subjectID), nil)
}

// GetTracking returns the live record plus its full event history, served
// from cache when fresh.
func (f *Fulfillment) GetTracking(ctx context.Context, subjectID string) (*model.Tracking, error) {
	var cached model.Tracking
	if err := f.cache.Get(ctx, trackingCacheKey(subjectID), &cached); err == nil && cached.TrackingID != "" {
		return &cached, nil
	}

	tracking, err := f.datasource.GetTracking(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, trackingCacheKey(subjectID), tracking, trackingCacheTTL); err != nil {
		logrus.Warnf("failed to cache tracking for %s: %v", subjectID, err)
	}

	return tracking, nil
}
