package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatedesk-backend/internal/enhancement"
	"estatedesk-backend/internal/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	workflow *enhancement.Workflow
}

func NewWebhookHandler(workflow *enhancement.Workflow) *WebhookHandler {
	return &WebhookHandler{workflow: workflow}
}

// HandleEnhancementWebhook receives completion callbacks from the AI
// enhancement provider. The signature covers the raw request body, so the
// body is read before any parsing.
func (h *WebhookHandler) HandleEnhancementWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	signature := c.GetHeader(SignatureHeader)

	applied, err := h.workflow.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		if errors.Is(err, enhancement.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "webhook processing failed"})
		return
	}

	if !applied {
		// Malformed payload or unknown record. The body is logged by the
		// workflow; the 400 tells the provider the delivery cannot succeed.
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "webhook processed",
	})
}
