package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"settlement-service/internal/services"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	Webhooks *services.WebhookService
}

func NewWebhookHandler(webhooks *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{Webhooks: webhooks}
}

type webhookEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// HandlePayoutEvent receives transfer events from the payout processor.
// The signature covers the raw body, so it is read before decoding.
func (h *WebhookHandler) HandlePayoutEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Unable to read request body", nil, http.StatusBadRequest))
		return
	}

	signature := c.GetHeader("X-Payout-Signature")
	if !h.Webhooks.VerifySignature(body, signature) {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid webhook signature", nil, http.StatusUnauthorized))
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Malformed event payload", nil, http.StatusBadRequest))
		return
	}

	reference, _ := event.Data["reference"].(string)
	if reference == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Event is missing a transfer reference", nil, http.StatusBadRequest))
		return
	}

	err = h.Webhooks.HandleTransferEvent(services.WebhookDTO{
		Signature: signature,
		Body:      body,
		Event:     event.Event,
		Reference: reference,
		Data:      event.Data,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Unknown transfer reference", nil, http.StatusNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
