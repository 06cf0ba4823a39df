package handlers

import (
	"github.com/gin-gonic/gin"

	"facturier/internal/domain"
	"facturier/internal/domain/documents/conversion"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/infrastructure/http/v1/dto"
	"facturier/internal/infrastructure/notify"
	"facturier/internal/infrastructure/pdf"
)

// DevisHandler handles HTTP requests for quotes.
type DevisHandler struct {
	*BaseHandler
	service   *devis.Service
	converter *conversion.Service
	renderer  *pdf.Renderer
}

// NewDevisHandler creates a new devis handler.
func NewDevisHandler(base *BaseHandler, service *devis.Service, converter *conversion.Service, renderer *pdf.Renderer) *DevisHandler {
	return &DevisHandler{
		BaseHandler: base,
		service:     service,
		converter:   converter,
		renderer:    renderer,
	}
}

// Create handles POST /devis.
func (h *DevisHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateDevisRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDevis(doc))
}

// Get handles GET /devis/:id.
func (h *DevisHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDevis(doc))
}

// Update handles PUT /devis/:id.
func (h *DevisHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateDevisRequest
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

	h.OK(c, dto.FromDevis(doc))
}

// UpdateStatus handles PATCH /devis/:id/status.
func (h *DevisHandler) UpdateStatus(c *gin.Context) {
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

	h.OK(c, dto.FromDevis(doc))
}

// Delete handles DELETE /devis/:id.
func (h *DevisHandler) Delete(c *gin.Context) {
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

// Convert handles POST /devis/:id/convert - turns an accepted quote into
// a new invoice.
func (h *DevisHandler) Convert(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.converter.Convert(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(inv))
}

// List handles GET /devis - list with filtering.
func (h *DevisHandler) List(c *gin.Context) {
	filter := devis.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Status = c.Query("status")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-created_at")
	filter.DateFrom = h.ParseDateQuery(c, "dateFrom")
	filter.DateTo = h.ParseDateQuery(c, "dateTo")

	if converted := c.Query("converted"); converted != "" {
		val := converted == "true"
		filter.Converted = &val
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.RespondList(c, dto.FromDevisList(result.Items), result.TotalCount, result.Limit, result.Offset)
}

// PDF handles GET /devis/:id/pdf.
func (h *DevisHandler) PDF(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	data, err := h.renderer.RenderDevis(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.PDF(c, pdf.Filename(doc.Number), data)
}

// WhatsAppLink handles GET /devis/:id/whatsapp.
func (h *DevisHandler) WhatsAppLink(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	link, err := notify.DevisLink(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.WhatsAppLinkResponse{Number: doc.Number, Link: link})
}
