package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facturier/internal/domain/documents/invoice"
	"facturier/internal/domain/totals"
)

// --- Request DTOs ---

// CreateInvoiceRequest represents a request to create a facture.
// Number is optional; the server assigns the next FACT number when absent.
// Payments may be recorded at creation time already (advance payments).
type CreateInvoiceRequest struct {
	Number        string           `json:"number,omitempty"`
	CustomerName  string           `json:"customerName" binding:"required"`
	CustomerPhone string           `json:"customerPhone,omitempty"`
	IssueDate     *time.Time       `json:"issueDate,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	DiscountType  string           `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	PaymentType   string           `json:"paymentType,omitempty"`
	Items         []LineRequest    `json:"items" binding:"required,min=1,dive"`
	Payments      []PaymentRequest `json:"payments,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	doc := invoice.New(r.CustomerName)
	doc.Number = r.Number
	doc.CustomerPhone = r.CustomerPhone
	doc.Notes = r.Notes
	doc.DiscountType = totals.ParseDiscountType(r.DiscountType)
	doc.DiscountValue = r.DiscountValue
	doc.PaymentType = r.PaymentType
	doc.Lines = ToLines(r.Items)
	doc.Payments = ToPayments(r.Payments)

	if r.IssueDate != nil {
		doc.IssueDate = *r.IssueDate
	}

	return doc
}

// UpdateInvoiceRequest represents a request to update a facture.
// Only fields present in the request are applied; sending payments replaces
// the whole payment table.
type UpdateInvoiceRequest struct {
	CustomerName  *string          `json:"customerName,omitempty"`
	CustomerPhone *string          `json:"customerPhone,omitempty"`
	IssueDate     *time.Time       `json:"issueDate,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	DiscountType  *string          `json:"discountType,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	PaymentType   *string          `json:"paymentType,omitempty"`
	Items         []LineRequest    `json:"items,omitempty"`
	Payments      []PaymentRequest `json:"payments,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateInvoiceRequest) ApplyTo(doc *invoice.Invoice) {
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
	if r.Items != nil {
		doc.Lines = ToLines(r.Items)
	}
	if r.Payments != nil {
		doc.Payments = ToPayments(r.Payments)
	}
}

// --- Response DTOs ---

// InvoiceResponse represents a facture in API responses.
type InvoiceResponse struct {
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

	Status  string `json:"status"`
	DevisID string `json:"devisId,omitempty"`

	Items    []LineResponse    `json:"items"`
	Payments []PaymentResponse `json:"payments"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromInvoice converts a domain facture to the response shape.
func FromInvoice(doc *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              doc.ID.String(),
		Number:          doc.Number,
		CustomerName:    doc.CustomerName,
		CustomerPhone:   doc.CustomerPhone,
		IssueDate:       doc.IssueDate,
		Notes:           doc.Notes,
		DiscountType:    string(doc.DiscountType),
		DiscountValue:   doc.DiscountValue,
		SubTotal:        doc.SubTotal,
		DiscountAmount:  doc.DiscountAmount,
		Total:           doc.Total,
		PaymentType:     doc.PaymentType,
		Advancement:     doc.Advancement,
		RemainingAmount: doc.RemainingAmount,
		Status:          doc.Status,
		DevisID:         idString(doc.DevisID),
		Items:           FromLines(doc.Lines),
		Payments:        FromPayments(doc.Payments),
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// FromInvoiceList converts a domain facture slice.
func FromInvoiceList(docs []*invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromInvoice(doc))
	}
	return out
}
