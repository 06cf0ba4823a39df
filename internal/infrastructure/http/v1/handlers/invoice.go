package handlers

import (
	"github.com/gin-gonic/gin"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents/invoice"
	"facturier/internal/infrastructure/http/v1/dto"
	"facturier/internal/infrastructure/notify"
	"facturier/internal/infrastructure/pdf"
)

// InvoiceHandler handles HTTP requests for factures.
type InvoiceHandler struct {
	*BaseHandler
	service  *invoice.Service
	renderer *pdf.Renderer
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, renderer *pdf.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		renderer:    renderer,
	}
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(doc))
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(doc))
}

// Update handles PUT /invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
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

	h.OK(c, dto.FromInvoice(doc))
}

// UpdateStatus handles PATCH /invoices/:id/status.
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
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

	h.OK(c, dto.FromInvoice(doc))
}

// AddPayment handles POST /invoices/:id/payments - records one payment and
// returns the invoice with refreshed advancement and remaining amount.
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.AddPayment(c.Request.Context(), docID, req.ToPayment())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(doc))
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
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

// List handles GET /invoices - list with filtering.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := invoice.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Status = c.Query("status")
	filter.PaymentType = c.Query("paymentType")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-created_at")
	filter.DateFrom = h.ParseDateQuery(c, "dateFrom")
	filter.DateTo = h.ParseDateQuery(c, "dateTo")

	if devisID := c.Query("devisId"); devisID != "" {
		if parsed, err := id.Parse(devisID); err == nil {
			filter.DevisID = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.RespondList(c, dto.FromInvoiceList(result.Items), result.TotalCount, result.Limit, result.Offset)
}

// PDF handles GET /invoices/:id/pdf.
func (h *InvoiceHandler) PDF(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	data, err := h.renderer.RenderInvoice(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.BaseHandler.PDF(c, pdf.Filename(doc.Number), data)
}

// WhatsAppLink handles GET /invoices/:id/whatsapp.
func (h *InvoiceHandler) WhatsAppLink(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	link, err := notify.InvoiceLink(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.WhatsAppLinkResponse{Number: doc.Number, Link: link})
}
