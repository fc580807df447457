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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partslane/fulfillment"
	"github.com/partslane/fulfillment/api/middleware"
	model2 "github.com/partslane/fulfillment/api/model"
)

func (a Api) GetTracking(c *gin.Context) {
	subjectID, passed := c.Params.Get("subject_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required. pass id in the route /:subject_id"})
		return
	}

	resp, err := a.service.GetTracking(c.Request.Context(), subjectID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateTrackingStatus(c *gin.Context) {
	subjectID, passed := c.Params.Get("subject_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required. pass id in the route /:subject_id"})
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req model2.TrackingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.UpdateTrackingStatus(c.Request.Context(), actor, subjectID, fulfillment.TrackingUpdate{
		Status:           req.Status,
		Location:         req.Location,
		EstimatedArrival: req.EstimatedArrival,
		Message:          req.Message,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) AssignProvider(c *gin.Context) {
	subjectID, passed := c.Params.Get("subject_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required. pass id in the route /:subject_id"})
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req model2.AssignProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.AssignProvider(c.Request.Context(), actor, subjectID, req.SubjectType, req.ProviderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
