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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/partslane/fulfillment/api/middleware"
	model2 "github.com/partslane/fulfillment/api/model"
)

// GetNotifications lists the caller's own notifications, newest first.
func (a Api) GetNotifications(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := a.service.GetNotifications(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) MarkNotificationRead(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.service.MarkNotificationRead(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (a Api) RegisterDeviceToken(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req model2.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RegisterDeviceToken(c.Request.Context(), req.ToDeviceToken(actor.ID))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) RegisterPushSubscription(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req model2.RegisterPushSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RegisterPushSubscription(c.Request.Context(), req.ToPushSubscription(actor.ID))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) UnregisterDeviceToken(c *gin.Context) {
	token, passed := c.Params.Get("token")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required. pass token in the route /:token"})
		return
	}

	if err := a.service.UnregisterDeviceToken(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// UnregisterPushSubscription takes the endpoint as a query parameter because
// a web-push endpoint is itself a URL and does not survive as a path segment.
func (a Api) UnregisterPushSubscription(c *gin.Context) {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint query parameter is required"})
		return
	}

	if err := a.service.UnregisterPushSubscription(c.Request.Context(), endpoint); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
