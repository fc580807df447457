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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/partslane/fulfillment"
	"github.com/partslane/fulfillment/api/middleware"
	"github.com/partslane/fulfillment/config"
	"github.com/partslane/fulfillment/internal/apierror"
)

type Api struct {
	service *fulfillment.Fulfillment
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	// The webhook authenticates itself by signature, not by caller
	// identity; it sits outside the actor-scoped group.
	router.POST("/webhooks/payment", a.PaymentWebhook)

	authed := router.Group("/", middleware.ActorMiddleware())

	authed.GET("orders/:id", a.GetOrder)
	authed.POST("orders/:id/transition", a.TransitionOrder)
	authed.POST("orders/:id/confirm-cod", a.ConfirmCODPayment)

	authed.GET("bookings/:id", a.GetBooking)
	authed.POST("bookings/:id/transition", a.TransitionBooking)

	authed.GET("tracking/:subject_id", a.GetTracking)
	authed.PATCH("tracking/:subject_id", a.UpdateTrackingStatus)
	authed.POST("tracking/:subject_id/assign", a.AssignProvider)

	authed.GET("payments/:reference", a.GetPayment)
	authed.GET("payments/:reference/verify", a.VerifyPayment)

	authed.GET("notifications", a.GetNotifications)
	authed.POST("notifications/:id/read", a.MarkNotificationRead)
	authed.POST("push/device-tokens", a.RegisterDeviceToken)
	authed.DELETE("push/device-tokens/:token", a.UnregisterDeviceToken)
	authed.POST("push/subscriptions", a.RegisterPushSubscription)
	authed.DELETE("push/subscriptions", a.UnregisterPushSubscription)

	return a.router
}

func NewAPI(service *fulfillment.Fulfillment) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware("fulfillment"))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{service: service, router: r}
}

// handleError writes the HTTP rendering of a service error: the mapped
// status code plus the machine-readable error code and message.
func handleError(c *gin.Context, err error) {
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"code": apiErr.Code, "error": apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
