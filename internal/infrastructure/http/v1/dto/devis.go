package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/totals"
)

// --- Request DTOs ---

// CreateDevisRequest represents a request to create a quote.
// Number is optional; the server assigns the next DEV number when absent.
type CreateDevisRequest struct {
	Number        string          `json:"number,omitempty"`
	CustomerName  string          `json:"customerName" binding:"required"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	IssueDate     *time.Time      `json:"issueDate,omitempty"`
	ValidityDate  *time.Time      `json:"validityDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	DiscountType  string          `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Items         []LineRequest   `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts request to domain entity.
func (r *CreateDevisRequest) ToEntity() *devis.Devis {
	doc := devis.New(r.CustomerName)
	doc.Number = r.Number
	doc.CustomerPhone = r.CustomerPhone
	doc.Notes = r.Notes
	doc.ValidityDate = r.ValidityDate
	doc.DiscountType = totals.ParseDiscountType(r.DiscountType)
	doc.DiscountValue = r.DiscountValue
	doc.Lines = ToLines(r.Items)

	if r.IssueDate != nil {
		doc.IssueDate = *r.IssueDate
	}

	return doc
}

// UpdateDevisRequest represents a request to update a quote.
// Only fields present in the request are applied.
type UpdateDevisRequest struct {
	CustomerName  *string          `json:"customerName,omitempty"`
	CustomerPhone *string          `json:"customerPhone,omitempty"`
	IssueDate     *time.Time       `json:"issueDate,omitempty"`
	ValidityDate  *time.Time       `json:"validityDate,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	DiscountType  *string          `json:"discountType,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	Items         []LineRequest    `json:"items,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateDevisRequest) ApplyTo(doc *devis.Devis) {
	if r.CustomerName != nil {
		doc.CustomerName = *r.CustomerName
	}
	if r.CustomerPhone != nil {
		doc.CustomerPhone = *r.CustomerPhone
	}
	if r.IssueDate != nil {
		doc.IssueDate = *r.IssueDate
	}
	if r.ValidityDate != nil {
		doc.ValidityDate = r.ValidityDate
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
	if r.Items != nil {
		doc.Lines = ToLines(r.Items)
	}
}

// --- Response DTOs ---

// DevisResponse represents a quote in API responses.
type DevisResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	IssueDate     time.Time       `json:"issueDate"`
	ValidityDate  *time.Time      `json:"validityDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`

	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`

	Status             string `json:"status"`
	ConvertedToInvoice bool   `json:"convertedToInvoice"`
	ConvertedInvoiceID string `json:"convertedInvoiceId,omitempty"`

	Items []LineResponse `json:"items"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDevis converts a domain quote to the response shape.
func FromDevis(doc *devis.Devis) DevisResponse {
	return DevisResponse{
		ID:                 doc.ID.String(),
		Number:             doc.Number,
		CustomerName:       doc.CustomerName,
		CustomerPhone:      doc.CustomerPhone,
		IssueDate:          doc.IssueDate,
		ValidityDate:       doc.ValidityDate,
		Notes:              doc.Notes,
		DiscountType:       string(doc.DiscountType),
		DiscountValue:      doc.DiscountValue,
		SubTotal:           doc.SubTotal,
		DiscountAmount:     doc.DiscountAmount,
		Total:              doc.Total,
		Status:             doc.Status,
		ConvertedToInvoice: doc.ConvertedToInvoice,
		ConvertedInvoiceID: idString(doc.ConvertedInvoiceID),
		Items:              FromLines(doc.Lines),
		Version:            doc.Version,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
}

// FromDevisList converts a domain quote slice.
func FromDevisList(docs []*devis.Devis) []DevisResponse {
	out := make([]DevisResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromDevis(doc))
	}
	return out
}
