package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/domain/totals"
)

// --- Request DTOs ---

// DeliveryLineRequest extends the shared line with the quantity actually
// delivered. Absent delivered quantity defaults to the ordered quantity.
type DeliveryLineRequest struct {
	LineRequest
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
}

// ToDeliveryLine converts the request line to the domain delivery line.
func (r DeliveryLineRequest) ToDeliveryLine() bonlivraison.Line {
	return bonlivraison.Line{
		Line:              r.ToLine(),
		DeliveredQuantity: r.DeliveredQuantity,
	}
}

// ToDeliveryLines converts a request delivery line slice.
func ToDeliveryLines(items []DeliveryLineRequest) []bonlivraison.Line {
	lines := make([]bonlivraison.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.ToDeliveryLine())
	}
	return lines
}

// CreateBonLivraisonRequest represents a request to create a delivery note.
// Number is optional; the server assigns the next BL number when absent.
type CreateBonLivraisonRequest struct {
	Number        string                `json:"number,omitempty"`
	CustomerName  string                `json:"customerName" binding:"required"`
	CustomerPhone string                `json:"customerPhone,omitempty"`
	IssueDate     *time.Time            `json:"issueDate,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	DiscountType  string                `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal       `json:"discountValue"`
	PaymentType   string                `json:"paymentType,omitempty"`
	InvoiceID     string                `json:"invoiceId,omitempty"`
	PreparedBy    string                `json:"preparedBy,omitempty"`
	DeliveredBy   string                `json:"deliveredBy,omitempty"`
	ReceiverName  string                `json:"receiverName,omitempty"`
	Items         []DeliveryLineRequest `json:"items" binding:"required,min=1,dive"`
	Payments      []PaymentRequest      `json:"payments,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateBonLivraisonRequest) ToEntity() *bonlivraison.BonLivraison {
	doc := bonlivraison.New(r.CustomerName)
	doc.Number = r.Number
	doc.CustomerPhone = r.CustomerPhone
	doc.Notes = r.Notes
	doc.DiscountType = totals.ParseDiscountType(r.DiscountType)
	doc.DiscountValue = r.DiscountValue
	doc.PaymentType = r.PaymentType
	doc.PreparedBy = r.PreparedBy
	doc.DeliveredBy = r.DeliveredBy
	doc.ReceiverName = r.ReceiverName
	doc.DeliveryLines = ToDeliveryLines(r.Items)
	doc.Payments = ToPayments(r.Payments)

	if r.IssueDate != nil {
		doc.IssueDate = *r.IssueDate
	}
	if parsed, err := parseOptionalID(r.InvoiceID); err == nil {
		doc.InvoiceID = parsed
	}

	return doc
}

// UpdateBonLivraisonRequest represents a request to update a delivery note.
type UpdateBonLivraisonRequest struct {
	CustomerName      *string               `json:"customerName,omitempty"`
	CustomerPhone     *string               `json:"customerPhone,omitempty"`
	IssueDate         *time.Time            `json:"issueDate,omitempty"`
	Notes             *string               `json:"notes,omitempty"`
	DiscountType      *string               `json:"discountType,omitempty"`
	DiscountValue     *decimal.Decimal      `json:"discountValue,omitempty"`
	PaymentType       *string               `json:"paymentType,omitempty"`
	PreparedBy        *string               `json:"preparedBy,omitempty"`
	DeliveredBy       *string               `json:"deliveredBy,omitempty"`
	ReceiverName      *string               `json:"receiverName,omitempty"`
	ReceiverSignature *string               `json:"receiverSignature,omitempty"`
	Items             []DeliveryLineRequest `json:"items,omitempty"`
	Payments          []PaymentRequest      `json:"payments,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateBonLivraisonRequest) ApplyTo(doc *bonlivraison.BonLivraison) {
	if r.CustomerName != nil {
		doc.CustomerName = *r.CustomerName
	}
	if r.CustomerPhone != nil {
		doc.CustomerPhone = *r.CustomerPhone
	}
	if r.IssueDate != nil {
		doc.IssueDate = *r.IssueDate
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
	if r.DiscountType != nil {
		doc.DiscountType = totals.ParseDiscountType(*r.DiscountType)
	}
	if r.DiscountValue != nil {
		doc.DiscountValue = *r.DiscountValue
	}
	if r.PaymentType != nil {
		doc.PaymentType = *r.PaymentType
	}
	if r.PreparedBy != nil {
		doc.PreparedBy = *r.PreparedBy
	}
	if r.DeliveredBy != nil {
		doc.DeliveredBy = *r.DeliveredBy
	}
	if r.ReceiverName != nil {
		doc.ReceiverName = *r.ReceiverName
	}
	if r.ReceiverSignature != nil {
		doc.ReceiverSignature = *r.ReceiverSignature
	}
	if r.Items != nil {
		doc.DeliveryLines = ToDeliveryLines(r.Items)
	}
	if r.Payments != nil {
		doc.Payments = ToPayments(r.Payments)
	}
}

// --- Response DTOs ---

// DeliveryLineResponse extends the shared line response with the quantity
// actually delivered.
type DeliveryLineResponse struct {
	LineResponse
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
}

// FromDeliveryLines converts a domain delivery line slice.
func FromDeliveryLines(lines []bonlivraison.Line) []DeliveryLineResponse {
	out := make([]DeliveryLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, DeliveryLineResponse{
			LineResponse:      FromLine(l.Line),
			DeliveredQuantity: l.DeliveredQuantity,
		})
	}
	return out
}

// BonLivraisonResponse represents a delivery note in API responses.
type BonLivraisonResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	IssueDate     time.Time       `json:"issueDate"`
	Notes         string          `json:"notes,omitempty"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`

	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`

	PaymentType     string          `json:"paymentType"`
	Advancement     decimal.Decimal `json:"advancement"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`

	Status    string `json:"status"`
	InvoiceID string `json:"invoiceId,omitempty"`

	PreparedBy        string `json:"preparedBy,omitempty"`
	DeliveredBy       string `json:"deliveredBy,omitempty"`
	ReceiverName      string `json:"receiverName,omitempty"`
	ReceiverSignature string `json:"receiverSignature,omitempty"`

	Items    []DeliveryLineResponse `json:"items"`
	Payments []PaymentResponse      `json:"payments"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromBonLivraison converts a domain delivery note to the response shape.
func FromBonLivraison(doc *bonlivraison.BonLivraison) BonLivraisonResponse {
	return BonLivraisonResponse{
		ID:                doc.ID.String(),
		Number:            doc.Number,
		CustomerName:      doc.CustomerName,
		CustomerPhone:     doc.CustomerPhone,
		IssueDate:         doc.IssueDate,
		Notes:             doc.Notes,
		DiscountType:      string(doc.DiscountType),
		DiscountValue:     doc.DiscountValue,
		SubTotal:          doc.SubTotal,
		DiscountAmount:    doc.DiscountAmount,
		Total:             doc.Total,
		PaymentType:       doc.PaymentType,
		Advancement:       doc.Advancement,
		RemainingAmount:   doc.RemainingAmount,
		Status:            doc.Status,
		InvoiceID:         idString(doc.InvoiceID),
		PreparedBy:        doc.PreparedBy,
		DeliveredBy:       doc.DeliveredBy,
		ReceiverName:      doc.ReceiverName,
		ReceiverSignature: doc.ReceiverSignature,
		Items:             FromDeliveryLines(doc.DeliveryLines),
		Payments:          FromPayments(doc.Payments),
		Version:           doc.Version,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

// FromBonLivraisonList converts a domain delivery note slice.
func FromBonLivraisonList(docs []*bonlivraison.BonLivraison) []BonLivraisonResponse {
	out := make([]BonLivraisonResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromBonLivraison(doc))
	}
	return out
}
