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
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partslane/fulfillment/api/middleware"
	"github.com/partslane/fulfillment/model"
)

const signatureHeader = "X-Gateway-Signature"

// PaymentWebhook receives gateway deliveries. The body is read raw because
// the HMAC covers the exact bytes on the wire; re-serialized JSON would not
// verify. Redeliveries are acknowledged with 200 so the gateway stops
// retrying.
func (a Api) PaymentWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := a.service.HandleWebhookEvent(c.Request.Context(), rawBody, c.GetHeader(signatureHeader))
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a Api) VerifyPayment(c *gin.Context) {
	reference, passed := c.Params.Get("reference")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required. pass reference in the route /:reference"})
		return
	}

	result, err := a.service.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": result.Payment.Status == model.PaymentCompleted,
		"payment":  result.Payment,
	})
}

func (a Api) GetPayment(c *gin.Context) {
	reference, passed := c.Params.Get("reference")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required. pass reference in the route /:reference"})
		return
	}

	resp, err := a.service.GetPayment(c.Request.Context(), reference)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ConfirmCODPayment(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	result, err := a.service.ConfirmCODPayment(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
