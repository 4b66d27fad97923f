package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
)

// TemplateService manages message templates
type TemplateService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.TemplateInput) (*whatsappapp.TemplateResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input whatsappapp.TemplateInput) (*whatsappapp.TemplateResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.TemplateResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, category string) ([]whatsappapp.TemplateResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Render(ctx context.Context, tenantID uuid.UUID, name string, values map[string]string) (string, error)
}

// CampaignService creates and runs bulk sends
type CampaignService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input whatsappapp.CreateCampaignInput) (*whatsappapp.CampaignResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter whatsappapp.CampaignListFilter) ([]whatsappapp.CampaignResponse, error)
	Start(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error)
	Pause(ctx context.Context, tenantID, id uuid.UUID) (*whatsappapp.CampaignResponse, error)
}

// TemplateHandler handles template and campaign endpoints
type TemplateHandler struct {
	BaseHandler
	templates TemplateService
	campaigns CampaignService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templates TemplateService, campaigns CampaignService) *TemplateHandler {
	return &TemplateHandler{templates: templates, campaigns: campaigns}
}

// TemplateRequest creates or replaces a template
// @Description Placeholders are written {{name}}
type TemplateRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"sale_thank_you"`
	Category string `json:"category" binding:"omitempty,max=50" example:"sales"`
	Body     string `json:"body" binding:"required,max=4096" example:"Asante {{customer_name}} kwa ununuzi wako!"`
	IsActive *bool  `json:"is_active"`
}

func (r TemplateRequest) input() whatsappapp.TemplateInput {
	return whatsappapp.TemplateInput{Name: r.Name, Category: r.Category, Body: r.Body, IsActive: r.IsActive}
}

// RenderTemplateRequest carries placeholder values
type RenderTemplateRequest struct {
	Values map[string]string `json:"values"`
}

// RenderTemplateResponse is the rendered text
type RenderTemplateResponse struct {
	Body string `json:"body"`
}

// RecipientRequest is one campaign addressee
type RecipientRequest struct {
	Phone     string            `json:"phone" binding:"required,max=32" example:"0712345678"`
	Name      string            `json:"name" binding:"max=200"`
	Variables map[string]string `json:"variables"`
}

// CreateCampaignRequest creates a draft campaign
// @Description Either template_id or body is required
type CreateCampaignRequest struct {
	Name        string             `json:"name" binding:"required,max=200" example:"December promo"`
	InstanceID  *uuid.UUID         `json:"instance_id,omitempty" swaggertype:"string" format:"uuid"`
	TemplateID  *uuid.UUID         `json:"template_id,omitempty" swaggertype:"string" format:"uuid"`
	Body        string             `json:"body" binding:"required_without=TemplateID,max=4096"`
	Recipients  []RecipientRequest `json:"recipients" binding:"required,min=1,max=1000,dive"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
}

// CreateTemplate godoc
// @ID           createWhatsAppTemplate
// @Summary      Create a template
// @Tags         whatsapp-templates
// @Accept       json
// @Produce      json
// @Param        request body TemplateRequest true "Template"
// @Success      201 {object} APIResponse[whatsappapp.TemplateResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), tenantID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tpl)
}

// UpdateTemplate godoc
// @ID           updateWhatsAppTemplate
// @Summary      Replace a template
// @Tags         whatsapp-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body TemplateRequest true "Template"
// @Success      200 {object} APIResponse[whatsappapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templates.Update(c.Request.Context(), tenantID, id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// GetTemplate godoc
// @ID           getWhatsAppTemplate
// @Summary      Get a template
// @Tags         whatsapp-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tpl, err := h.templates.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// ListTemplates godoc
// @ID           listWhatsAppTemplates
// @Summary      List templates
// @Tags         whatsapp-templates
// @Produce      json
// @Param        category query string false "Category"
// @Success      200 {object} APIResponse[[]whatsappapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /whatsapp/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	list, err := h.templates.List(c.Request.Context(), tenantID, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// DeleteTemplate godoc
// @ID           deleteWhatsAppTemplate
// @Summary      Delete a template
// @Tags         whatsapp-templates
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /whatsapp/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RenderTemplate godoc
// @ID           renderWhatsAppTemplate
// @Summary      Preview a template with values
// @Description  Unknown placeholders are left as written
// @Tags         whatsapp-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body RenderTemplateRequest true "Values"
// @Success      200 {object} APIResponse[RenderTemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/templates/{id}/render [post]
func (h *TemplateHandler) RenderTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req RenderTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	tpl, err := h.templates.Get(ctx, tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	body, err := h.templates.Render(ctx, tenantID, tpl.Name, req.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RenderTemplateResponse{Body: body})
}

// CreateCampaign godoc
// @ID           createWhatsAppCampaign
// @Summary      Create a draft campaign
// @Tags         whatsapp-campaigns
// @Accept       json
// @Produce      json
// @Param        request body CreateCampaignRequest true "Campaign"
// @Success      201 {object} APIResponse[whatsappapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/campaigns [post]
func (h *TemplateHandler) CreateCampaign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	recipients := make([]whatsappapp.RecipientInput, len(req.Recipients))
	for i, r := range req.Recipients {
		recipients[i] = whatsappapp.RecipientInput{Phone: r.Phone, Name: r.Name, Variables: r.Variables}
	}
	campaign, err := h.campaigns.Create(c.Request.Context(), tenantID, whatsappapp.CreateCampaignInput{
		Name:        req.Name,
		InstanceID:  req.InstanceID,
		TemplateID:  req.TemplateID,
		Body:        req.Body,
		Recipients:  recipients,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, campaign)
}

// GetCampaign godoc
// @ID           getWhatsAppCampaign
// @Summary      Get a campaign with its recipients
// @Tags         whatsapp-campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.CampaignResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/campaigns/{id} [get]
func (h *TemplateHandler) GetCampaign(c *gin.Context) {
	h.withCampaign(c, h.campaigns.Get)
}

// StartCampaign godoc
// @ID           startWhatsAppCampaign
// @Summary      Queue a campaign's pending recipients
// @Tags         whatsapp-campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.CampaignResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/campaigns/{id}/start [post]
func (h *TemplateHandler) StartCampaign(c *gin.Context) {
	h.withCampaign(c, h.campaigns.Start)
}

// PauseCampaign godoc
// @ID           pauseWhatsAppCampaign
// @Summary      Pause a sending campaign
// @Tags         whatsapp-campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[whatsappapp.CampaignResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /whatsapp/campaigns/{id}/pause [post]
func (h *TemplateHandler) PauseCampaign(c *gin.Context) {
	h.withCampaign(c, h.campaigns.Pause)
}

func (h *TemplateHandler) withCampaign(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*whatsappapp.CampaignResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	campaign, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaign)
}

// ListCampaigns godoc
// @ID           listWhatsAppCampaigns
// @Summary      List campaigns
// @Tags         whatsapp-campaigns
// @Produce      json
// @Param        status query string false "Status"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]whatsappapp.CampaignResponse]
// @Security     BearerAuth
// @Router       /whatsapp/campaigns [get]
func (h *TemplateHandler) ListCampaigns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter whatsappapp.CampaignListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.campaigns.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
