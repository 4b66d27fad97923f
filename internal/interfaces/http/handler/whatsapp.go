package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/whatsapp"
)

// InstanceService is the part of whatsapp.InstanceService the handler uses
type InstanceService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.CreateInstanceInput) (*whatsappapp.InstanceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]whatsappapp.InstanceResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error)
	RefreshState(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error)
	QR(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.QRCode, error)
	SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.InstanceResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MessageService is the part of whatsapp.MessageService the handler uses
type MessageService interface {
	Send(ctx context.Context, tenantID uuid.UUID, input whatsappapp.SendMessageInput) (*whatsappapp.MessageResponse, error)
	PollRecent(ctx context.Context, tenantID uuid.UUID) ([]whatsappapp.MessageResponse, error)
	GetChat(ctx context.Context, tenantID uuid.UUID, chatID string) (*whatsappapp.ChatResponse, error)
	MarkRead(ctx context.Context, tenantID uuid.UUID, chatID string) (int64, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.MessageResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter whatsappapp.MessageListFilter) ([]whatsappapp.MessageResponse, error)
	Stats(ctx context.Context, tenantID uuid.UUID) (*whatsappapp.MessageStatsResponse, error)
}

// QueueRunner drains due outbound messages
type QueueRunner interface {
	ProcessQueue(ctx context.Context) (int, error)
}

// WhatsAppHandler handles instances, messages and chats
type WhatsAppHandler struct {
	BaseHandler
	instances InstanceService
	messages  MessageService
	queue     QueueRunner
}

// NewWhatsAppHandler creates a new WhatsAppHandler
func NewWhatsAppHandler(instances InstanceService, messages MessageService, queue QueueRunner) *WhatsAppHandler {
	return &WhatsAppHandler{instances: instances, messages: messages, queue: queue}
}

// CreateInstanceRequest registers a Green API account
// @Description The API token and webhook token are stored but never
// @Description returned. webhook_token is what Green API sends in the
// @Description Authorization header of this instance's notifications.
type CreateInstanceRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Front desk"`
	InstanceID   string `json:"instance_id" binding:"required,numeric,max=32" example:"1101823456"`
	APIToken     string `json:"api_token" binding:"required,max=128"`
	WebhookToken string `json:"webhook_token" binding:"omitempty,max=128"`
	PhoneNumber  string `json:"phone_number" binding:"omitempty,phone" example:"255712345678"`
	Host         string `json:"host" binding:"omitempty,url" example:"https://api.green-api.com"`
	IsDefault    bool   `json:"is_default"`
}

// SendMessageRequest sends a text or a named template
// @Description Either body or template_name is required. The message is
// @Description queued and delivered in the background.
type SendMessageRequest struct {
	InstanceID   *uuid.UUID        `json:"instance_id,omitempty" swaggertype:"string" format:"uuid"`
	To           string            `json:"to" binding:"required,max=64" example:"255712345678"`
	Body         string            `json:"body" binding:"required_without=TemplateName,max=4096"`
	TemplateName string            `json:"template_name" binding:"max=100"`
	Variables    map[string]string `json:"variables"`
	Priority     int               `json:"priority" binding:"gte=0,lte=10"`
}

// QueueRunResponse reports a manual queue run
type QueueRunResponse struct {
	Processed int `json:"processed"`
}

// CreateInstance godoc
// @ID           createWhatsAppInstance
// @Summary      Register a WhatsApp instance
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        request body CreateInstanceRequest true "Instance"
// @Success      201 {object} APIResponse[whatsappapp.InstanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/instances [post]
func (h *WhatsAppHandler) CreateInstance(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateInstanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inst, err := h.instances.Create(c.Request.Context(), tenantID, whatsappapp.CreateInstanceInput{
		Name:         req.Name,
		InstanceID:   req.InstanceID,
		APIToken:     req.APIToken,
		WebhookToken: req.WebhookToken,
		PhoneNumber:  req.PhoneNumber,
		Host:         req.Host,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inst)
}

// ListInstances godoc
// @ID           listWhatsAppInstances
// @Summary      List WhatsApp instances
// @Tags         whatsapp
// @Produce      json
// @Success      200 {object} APIResponse[[]whatsappapp.InstanceResponse]
// @Security     BearerAuth
// @Router       /whatsapp/instances [get]
func (h *WhatsAppHandler) ListInstances(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	list, err := h.instances.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetInstance godoc
// @ID           getWhatsAppInstance
// @Summary      Get a WhatsApp instance
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.InstanceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/instances/{id} [get]
func (h *WhatsAppHandler) GetInstance(c *gin.Context) {
	h.withInstance(c, h.instances.Get)
}

// RefreshState godoc
// @ID           refreshWhatsAppInstanceState
// @Summary      Ask the provider for the instance state
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.InstanceResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/instances/{id}/state [post]
func (h *WhatsAppHandler) RefreshState(c *gin.Context) {
	h.withInstance(c, h.instances.RefreshState)
}

// SetDefault godoc
// @ID           setDefaultWhatsAppInstance
// @Summary      Make an instance the shop default
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.InstanceResponse]
// @Security     BearerAuth
// @Router       /whatsapp/instances/{id}/default [post]
func (h *WhatsAppHandler) SetDefault(c *gin.Context) {
	h.withInstance(c, h.instances.SetDefault)
}

func (h *WhatsAppHandler) withInstance(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*whatsappapp.InstanceResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	inst, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inst)
}

// QR godoc
// @ID           whatsAppInstanceQR
// @Summary      QR code to link the instance
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Success      200 {object} APIResponse[whatsapp.QRCode]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/instances/{id}/qr [get]
func (h *WhatsAppHandler) QR(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	qr, err := h.instances.QR(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, qr)
}

// DeleteInstance godoc
// @ID           deleteWhatsAppInstance
// @Summary      Remove a WhatsApp instance
// @Tags         whatsapp
// @Param        id path string true "Instance ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /whatsapp/instances/{id} [delete]
func (h *WhatsAppHandler) DeleteInstance(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.instances.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @ID           sendWhatsAppMessage
// @Summary      Send a message
// @Description  The message is stored as pending and answered at once; delivery happens from the queue
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        request body SendMessageRequest true "Message"
// @Success      202 {object} APIResponse[whatsappapp.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/messages [post]
func (h *WhatsAppHandler) Send(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Send(c.Request.Context(), tenantID, whatsappapp.SendMessageInput{
		InstanceID:   req.InstanceID,
		To:           req.To,
		Body:         req.Body,
		TemplateName: req.TemplateName,
		Variables:    req.Variables,
		Priority:     req.Priority,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, msg)
}

// ListMessages godoc
// @ID           listWhatsAppMessages
// @Summary      List messages
// @Tags         whatsapp
// @Produce      json
// @Param        search query string false "Body text"
// @Param        chat_id query string false "Chat"
// @Param        status query string false "Status"
// @Param        direction query string false "Direction" Enums(inbound, outbound)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]whatsappapp.MessageResponse]
// @Security     BearerAuth
// @Router       /whatsapp/messages [get]
func (h *WhatsAppHandler) ListMessages(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter whatsappapp.MessageListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	msgs, err := h.messages.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msgs)
}

// GetMessage godoc
// @ID           getWhatsAppMessage
// @Summary      Get a message
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/messages/{id} [get]
func (h *WhatsAppHandler) GetMessage(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// Recent godoc
// @ID           recentWhatsAppMessages
// @Summary      Inbound messages from the last poll window
// @Description  Clients poll this every ten seconds; the window defaults to thirty seconds
// @Tags         whatsapp
// @Produce      json
// @Success      200 {object} APIResponse[[]whatsappapp.MessageResponse]
// @Security     BearerAuth
// @Router       /whatsapp/messages/recent [get]
func (h *WhatsAppHandler) Recent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	msgs, err := h.messages.PollRecent(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msgs)
}

// Stats godoc
// @ID           whatsAppMessageStats
// @Summary      Message counts per status
// @Tags         whatsapp
// @Produce      json
// @Success      200 {object} APIResponse[whatsappapp.MessageStatsResponse]
// @Security     BearerAuth
// @Router       /whatsapp/messages/stats [get]
func (h *WhatsAppHandler) Stats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stats, err := h.messages.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetChat godoc
// @ID           getWhatsAppChat
// @Summary      Chat history
// @Description  Served from the chat cache while it is younger than thirty seconds
// @Tags         whatsapp
// @Produce      json
// @Param        chatId path string true "Chat ID" example(255712345678@c.us)
// @Success      200 {object} APIResponse[whatsappapp.ChatResponse]
// @Security     BearerAuth
// @Router       /whatsapp/chats/{chatId} [get]
func (h *WhatsAppHandler) GetChat(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	chat, err := h.messages.GetChat(c.Request.Context(), tenantID, c.Param("chatId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chat)
}

// MarkRead godoc
// @ID           markWhatsAppChatRead
// @Summary      Mark a chat's inbound messages read
// @Tags         whatsapp
// @Produce      json
// @Param        chatId path string true "Chat ID"
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /whatsapp/chats/{chatId}/read [post]
func (h *WhatsAppHandler) MarkRead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	n, err := h.messages.MarkRead(c.Request.Context(), tenantID, c.Param("chatId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: n})
}

// ProcessQueue godoc
// @ID           processWhatsAppQueue
// @Summary      Run the outbound queue now
// @Description  Returns zero when a run is already in progress
// @Tags         whatsapp
// @Produce      json
// @Success      200 {object} APIResponse[QueueRunResponse]
// @Security     BearerAuth
// @Router       /whatsapp/queue/process [post]
func (h *WhatsAppHandler) ProcessQueue(c *gin.Context) {
	n, err := h.queue.ProcessQueue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, QueueRunResponse{Processed: n})
}
