package handlers

import (
	"github.com/gin-gonic/gin"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/infrastructure/http/v1/dto"
	"facturier/internal/infrastructure/notify"
	"facturier/internal/infrastructure/pdf"
)

// BonLivraisonHandler handles HTTP requests for delivery notes.
type BonLivraisonHandler struct {
	*BaseHandler
	service  *bonlivraison.Service
	renderer *pdf.Renderer
}

// NewBonLivraisonHandler creates a new bon de livraison handler.
func NewBonLivraisonHandler(base *BaseHandler, service *bonlivraison.Service, renderer *pdf.Renderer) *BonLivraisonHandler {
	return &BonLivraisonHandler{
		BaseHandler: base,
		service:     service,
		renderer:    renderer,
	}
}

// Create handles POST /bons-livraison.
func (h *BonLivraisonHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBonLivraisonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBonLivraison(doc))
}

// Get handles GET /bons-livraison/:id.
func (h *BonLivraisonHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBonLivraison(doc))
}

// Update handles PUT /bons-livraison/:id.
func (h *BonLivraisonHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBonLivraisonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBonLivraison(doc))
}

// UpdateStatus handles PATCH /bons-livraison/:id/status.
func (h *BonLivraisonHandler) UpdateStatus(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateStatus(c.Request.Context(), docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBonLivraison(doc))
}

// Delete handles DELETE /bons-livraison/:id.
func (h *BonLivraisonHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /bons-livraison - list with filtering.
func (h *BonLivraisonHandler) List(c *gin.Context) {
	filter := bonlivraison.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Status = c.Query("status")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-created_at")
	filter.DateFrom = h.ParseDateQuery(c, "dateFrom")
	filter.DateTo = h.ParseDateQuery(c, "dateTo")

	if invoiceID := c.Query("invoiceId"); invoiceID != "" {
		if parsed, err := id.Parse(invoiceID); err == nil {
			filter.InvoiceID = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.RespondList(c, dto.FromBonLivraisonList(result.Items), result.TotalCount, result.Limit, result.Offset)
}

// PDF handles GET /bons-livraison/:id/pdf.
func (h *BonLivraisonHandler) PDF(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	data, err := h.renderer.RenderBonLivraison(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.PDF(c, pdf.Filename(doc.Number), data)
}

// WhatsAppLink handles GET /bons-livraison/:id/whatsapp.
func (h *BonLivraisonHandler) WhatsAppLink(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	link, err := notify.BonLivraisonLink(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.WhatsAppLinkResponse{Number: doc.Number, Link: link})
}
