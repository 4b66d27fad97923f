package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/interfaces/http/dto"
)

// maxWebhookBody caps a single Green API notification
const maxWebhookBody = 1 << 20

// WebhookIngester authenticates, stores and applies provider notifications
type WebhookIngester interface {
	Handle(ctx context.Context, instanceID, token string, raw []byte) (*whatsappapp.WebhookResult, error)
}

// WebhookHandler receives Green API notifications. It sits outside JWT
// auth; the addressed instance's webhook token is the only credential.
type WebhookHandler struct {
	BaseHandler
	service WebhookIngester
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service WebhookIngester) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// presentedToken reads the bearer header, falling back to ?token=
func presentedToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

// Receive godoc
// @ID           receiveWhatsAppWebhook
// @Summary      Green API notification endpoint
// @Description  Every notification is stored once. Redeliveries answer 200 with duplicate=true.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        instanceId path string true "Green API instance number"
// @Param        token query string false "Webhook token when the Authorization header is not set"
// @Success      200 {object} APIResponse[whatsappapp.WebhookResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /webhooks/whatsapp/{instanceId} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(raw) > maxWebhookBody {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "Notification too large")
		return
	}
	result, err := h.service.Handle(c.Request.Context(), c.Param("instanceId"), presentedToken(c), raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
