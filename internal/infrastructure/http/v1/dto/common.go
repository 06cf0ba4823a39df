// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facturier/internal/core/id"
	"facturier/internal/domain/documents"
)

// --- Generic responses ---

// IDResponse carries the identifier of a created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a simple acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// WhatsAppLinkResponse carries the share link for a document.
type WhatsAppLinkResponse struct {
	Number string `json:"number"`
	Link   string `json:"link"`
}

// --- Status ---

// UpdateStatusRequest sets the lifecycle status of a document.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Line items ---

// LineRequest represents one line item in create/update requests.
// Quantity and the dimension multipliers may be omitted; absent values
// count as 1 in the price computation.
type LineRequest struct {
	ArticleName string          `json:"articleName" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	V1          decimal.Decimal `json:"v1"`
	V2          decimal.Decimal `json:"v2"`
	V3          decimal.Decimal `json:"v3"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// ToLine converts the request line to the domain line. Derived fields are
// filled by the document recomputation, never taken from the client.
func (r LineRequest) ToLine() documents.Line {
	return documents.Line{
		ArticleName: r.ArticleName,
		Quantity:    r.Quantity,
		V1:          r.V1,
		V2:          r.V2,
		V3:          r.V3,
		UnitPrice:   r.UnitPrice,
	}
}

// ToLines converts a request line slice.
func ToLines(items []LineRequest) []documents.Line {
	lines := make([]documents.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.ToLine())
	}
	return lines
}

// LineResponse represents one line item in API responses.
type LineResponse struct {
	LineID      string          `json:"lineId"`
	LineNo      int             `json:"lineNo"`
	ArticleName string          `json:"articleName"`
	Quantity    decimal.Decimal `json:"quantity"`
	V1          decimal.Decimal `json:"v1"`
	V2          decimal.Decimal `json:"v2"`
	V3          decimal.Decimal `json:"v3"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// FromLine converts a domain line to the response shape.
func FromLine(l documents.Line) LineResponse {
	return LineResponse{
		LineID:      l.LineID.String(),
		LineNo:      l.LineNo,
		ArticleName: l.ArticleName,
		Quantity:    l.Quantity,
		V1:          l.V1,
		V2:          l.V2,
		V3:          l.V3,
		UnitPrice:   l.UnitPrice,
		TotalPrice:  l.TotalPrice,
	}
}

// FromLines converts a domain line slice.
func FromLines(lines []documents.Line) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, FromLine(l))
	}
	return out
}

// --- Payments ---

// PaymentRequest represents one payment record in requests.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ToPayment converts the request payment to the domain payment.
// An absent payment date defaults to now.
func (r PaymentRequest) ToPayment() documents.Payment {
	date := time.Now().UTC()
	if r.PaymentDate != nil {
		date = *r.PaymentDate
	}
	return documents.Payment{
		Amount:        r.Amount,
		PaymentDate:   date,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Notes:         r.Notes,
	}
}

// ToPayments converts a request payment slice.
func ToPayments(items []PaymentRequest) []documents.Payment {
	payments := make([]documents.Payment, 0, len(items))
	for _, item := range items {
		payments = append(payments, item.ToPayment())
	}
	return payments
}

// PaymentResponse represents one payment record in API responses.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// FromPayment converts a domain payment to the response shape.
func FromPayment(p documents.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID.String(),
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		Notes:         p.Notes,
	}
}

// FromPayments converts a domain payment slice.
func FromPayments(payments []documents.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

// --- Shared helpers ---

func idString(v *id.ID) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// parseOptionalID parses an identifier that may be absent.
func parseOptionalID(s string) (*id.ID, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
