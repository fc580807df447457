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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func eligibleProvider() *model.Provider {
	return &model.Provider{
		ProviderID: "prv_log",
		Name:       "Swift Dispatch",
		Role:       model.RoleLogistics,
		Verified:   true,
		Approved:   true,
	}
}

func TestAssignProvider_AdminAssignsToOrder(t *testing.T) {
	f, mockDS, _, _ := newTestFulfillment(t)

	actor := model.Actor{ID: "adm_1", Role: model.RoleAdmin}
	mockDS.On("GetOrder", anyCtx, "ord_1").Return(pendingOrder(), nil)
	mockDS.On("GetProvider", anyCtx, "prv_log").Return(eligibleProvider(), nil)
	mockDS.On("AssignProviderToTracking", anyCtx, "ord_1", model.SubjectTypeOrder, "prv_log").
		Return(assignedRecord(), nil)
	expectQuietNotifications(mockDS)

	record, err := f.AssignProvider(context.Background(), actor, "ord_1", model.SubjectTypeOrder, "prv_log")
	assert.NoError(t, err)
	assert.Equal(t, "prv_log", record.AssignedProviderID)
	assert.Equal(t, model.TrackingStatusAssigned, record.Status)
	// Provider and requester both hear about the assignment.
	mockDS.AssertNumberOfCalls(t, "RecordNotification", 2)
}

func TestAssignProvider_IneligibleProviderRejected(t *testing.T) {
	f, mockDS, _, _ := newTestFulfillment(t)

	unapproved := eligibleProvider()
	unapproved.Approved = false

	actor := model.Actor{ID: "adm_1", Role: model.RoleAdmin}
	mockDS.On("GetOrder", anyCtx, "ord_1").Return(pendingOrder(), nil)
	mockDS.On("GetProvider", anyCtx, "prv_log").Return(unapproved, nil)

	_, err := f.AssignProvider(context.Background(), actor, "ord_1", model.SubjectTypeOrder, "prv_log")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrUnprocessable))
	mockDS.AssertNotCalled(t, "AssignProviderToTracking", anyCtx, anyArg, anyArg, anyArg)
}

func TestAssignProvider_BuyerForbidden(t *testing.T) {
	f, mockDS, _, _ := newTestFulfillment(t)

	actor := model.Actor{ID: "usr_buyer", Role: model.RoleBuyer}
	mockDS.On("GetOrder", anyCtx, "ord_1").Return(pendingOrder(), nil)

	_, err := f.AssignProvider(context.Background(), actor, "ord_1", model.SubjectTypeOrder, "prv_log")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrForbidden))
}

func TestAssignProvider_UnknownSubjectType(t *testing.T) {
	f, _, _, _ := newTestFulfillment(t)

	actor := model.Actor{ID: "adm_1", Role: model.RoleAdmin}
	_, err := f.AssignProvider(context.Background(), actor, "sub_1", "warehouse", "prv_log")
	assert.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))
}

func TestAssignProvider_ReassignmentReplacesProvider(t *testing.T) {
	f, mockDS, _, _ := newTestFulfillment(t)

	replacement := eligibleProvider()
	replacement.ProviderID = "prv_new"

	reassigned := assignedRecord()
	reassigned.AssignedProviderID = "prv_new"

	actor := model.Actor{ID: "adm_1", Role: model.RoleAdmin}
	mockDS.On("GetOrder", anyCtx, "ord_1").Return(pendingOrder(), nil)
	mockDS.On("GetProvider", anyCtx, "prv_new").Return(replacement, nil)
	mockDS.On("AssignProviderToTracking", anyCtx, "ord_1", model.SubjectTypeOrder, "prv_new").
		Return(reassigned, nil)
	expectQuietNotifications(mockDS)

	record, err := f.AssignProvider(context.Background(), actor, "ord_1", model.SubjectTypeOrder, "prv_new")
	assert.NoError(t, err)
	assert.Equal(t, "prv_new", record.AssignedProviderID)
}
