// Package documents provides the shared model underlying the three billing
// document kinds: devis, facture (invoice) and bon de livraison.
//
// Document carries the fields every kind has (customer, line items, discount,
// derived totals, lifecycle status); Payable adds the payment table part for
// invoices and delivery notes. Totals are always derived through the totals
// engine; the raw inputs (lines, discount type and value, payments) are the
// source of truth and client-sent totals are never trusted.
package documents

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
	"facturier/internal/core/entity"
	"facturier/internal/core/id"
	"facturier/internal/domain/totals"
)

// Payment methods accepted on a single payment record.
const (
	MethodEspece   = "espece"
	MethodCheque   = "cheque"
	MethodVirement = "virement"
	MethodCarte    = "carte"
)

// Payment types summarizing how a payable document is settled.
// "multiple" marks documents paid through several methods; "non_paye" is the
// initial state of a freshly created payable document.
const (
	PaymentTypeMultiple = "multiple"
	PaymentTypeNonPaye  = "non_paye"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodEspece, MethodCheque, MethodVirement, MethodCarte:
		return true
	}
	return false
}

// ValidPaymentType reports whether t is an accepted payment type.
func ValidPaymentType(t string) bool {
	return ValidPaymentMethod(t) || t == PaymentTypeMultiple || t == PaymentTypeNonPaye
}

// Document contains the fields common to all billing document kinds.
type Document struct {
	entity.BaseDocument

	// Number is the human-readable identifier (e.g. "DEV-42", "FACT-7").
	// Unique per document kind.
	Number string `db:"number" json:"number"`

	// Customer
	CustomerName  string `db:"customer_name" json:"customerName"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone,omitempty"`

	IssueDate time.Time `db:"issue_date" json:"issueDate"`
	Notes     string    `db:"notes" json:"notes,omitempty"`

	// Discount inputs (source of truth; DiscountAmount is derived)
	DiscountType  totals.DiscountType `db:"discount_type" json:"discountType"`
	DiscountValue decimal.Decimal     `db:"discount_value" json:"discountValue"`

	// Derived totals. Written only by Recompute.
	SubTotal       decimal.Decimal `db:"sub_total" json:"subTotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discountAmount"`
	Total          decimal.Decimal `db:"total" json:"total"`

	// Status is owned by the caller (explicit transitions only);
	// recomputation never touches it.
	Status string `db:"status" json:"status"`

	// Table part: line items
	Lines []Line `db:"-" json:"items"`
}

// Line represents one line item of a billing document.
// TotalPrice is derived (quantity × v1 × v2 × v3 × unitPrice).
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ArticleName string `db:"article_name" json:"articleName"`

	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	// Dimension multipliers (length, width, height for volumetric pricing).
	// Zero means absent and counts as 1.
	V1 decimal.Decimal `db:"v1" json:"v1"`
	V2 decimal.Decimal `db:"v2" json:"v2"`
	V3 decimal.Decimal `db:"v3" json:"v3"`

	UnitPrice  decimal.Decimal `db:"unit_price" json:"unitPrice"`
	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
}

// Input converts the line to the totals engine input.
func (l Line) Input() totals.LineInput {
	return totals.LineInput{
		Quantity:  l.Quantity,
		V1:        l.V1,
		V2:        l.V2,
		V3:        l.V3,
		UnitPrice: l.UnitPrice,
	}
}

// NewDocument creates a Document with generated ID and defaults applied.
func NewDocument(customerName string) Document {
	return Document{
		BaseDocument:  entity.NewBaseDocument(),
		CustomerName:  customerName,
		IssueDate:     time.Now().UTC(),
		DiscountType:  totals.DiscountFixed,
		DiscountValue: decimal.Zero,
		Lines:         make([]Line, 0),
	}
}

// NormalizeLines assigns line identifiers and sequence numbers and derives
// each TotalPrice from the raw pricing fields. Absent quantity and dimension
// multipliers stay zero in storage; the totals engine substitutes the
// default 1 during computation.
func (d *Document) NormalizeLines() {
	for i := range d.Lines {
		if id.IsNil(d.Lines[i].LineID) {
			d.Lines[i].LineID = id.New()
		}
		d.Lines[i].LineNo = i + 1
		d.Lines[i].TotalPrice = totals.LineTotal(d.Lines[i].Input())
	}
}

// Recompute derives the document totals from lines and discount inputs.
// It rewrites the derived fields only; Status is left exactly as it was.
func (d *Document) Recompute() {
	d.NormalizeLines()

	inputs := make([]totals.LineInput, len(d.Lines))
	for i, line := range d.Lines {
		inputs[i] = line.Input()
	}

	t := totals.Compute(inputs, d.DiscountType, d.DiscountValue)
	d.SubTotal = t.SubTotal
	d.DiscountAmount = t.DiscountAmount
	d.Total = t.Total
}

// CurrentTotals returns the derived totals without mutating the document.
func (d *Document) CurrentTotals() totals.Totals {
	return totals.Totals{
		SubTotal:       d.SubTotal,
		DiscountAmount: d.DiscountAmount,
		Total:          d.Total,
	}
}

// Validate implements entity.Validatable for the shared fields.
// Kind-specific validation (status sets, payment rules) lives in the kind
// packages and calls this first.
func (d *Document) Validate(ctx context.Context) error {
	if d.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if d.DiscountValue.IsNegative() {
		return apperror.NewValidation("discount value cannot be negative").
			WithDetail("field", "discountValue")
	}

	for i, line := range d.Lines {
		if line.ArticleName == "" {
			return apperror.NewValidation("article name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity.IsNegative() || line.V1.IsNegative() ||
			line.V2.IsNegative() || line.V3.IsNegative() {
			return apperror.NewValidation("quantity and dimensions cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return totals.CheckDiscount(d.CurrentTotals())
}

// Payable extends Document with the payment table part for invoices and
// delivery notes. A devis carries no payments and embeds Document directly.
type Payable struct {
	Document

	// PaymentType summarizes settlement (a method, "multiple" or "non_paye").
	PaymentType string `db:"payment_type" json:"paymentType"`

	// Derived from Payments. Written only by Recompute.
	Advancement     decimal.Decimal `db:"advancement" json:"advancement"`
	RemainingAmount decimal.Decimal `db:"remaining_amount" json:"remainingAmount"`

	// Table part: recorded payments
	Payments []Payment `db:"-" json:"payments"`
}

// Payment represents one partial payment (avancement) against a payable
// document.
type Payment struct {
	PaymentID id.ID `db:"payment_id" json:"paymentId"`

	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentDate   time.Time       `db:"payment_date" json:"paymentDate"`
	PaymentMethod string          `db:"payment_method" json:"paymentMethod"`
	Reference     string          `db:"reference" json:"reference,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
}

// NewPayable creates a Payable with defaults applied.
func NewPayable(customerName string) Payable {
	return Payable{
		Document:        NewDocument(customerName),
		PaymentType:     PaymentTypeNonPaye,
		Advancement:     decimal.Zero,
		RemainingAmount: decimal.Zero,
		Payments:        make([]Payment, 0),
	}
}

// NormalizePayments assigns payment identifiers and defaults the payment
// date to the current day when absent.
func (p *Payable) NormalizePayments() {
	for i := range p.Payments {
		if id.IsNil(p.Payments[i].PaymentID) {
			p.Payments[i].PaymentID = id.New()
		}
		if p.Payments[i].PaymentDate.IsZero() {
			p.Payments[i].PaymentDate = time.Now().UTC()
		}
	}
}

// Recompute derives all totals, including the payment aggregation.
// Status and PaymentType are left exactly as they were.
func (p *Payable) Recompute() {
	p.NormalizeLines()
	p.NormalizePayments()

	inputs := make([]totals.LineInput, len(p.Lines))
	for i, line := range p.Lines {
		inputs[i] = line.Input()
	}
	amounts := make([]decimal.Decimal, len(p.Payments))
	for i, payment := range p.Payments {
		amounts[i] = payment.Amount
	}

	t := totals.ComputePayable(inputs, p.DiscountType, p.DiscountValue, amounts)
	p.SubTotal = t.SubTotal
	p.DiscountAmount = t.DiscountAmount
	p.Total = t.Total
	p.Advancement = t.Advancement
	p.RemainingAmount = t.RemainingAmount
}

// CurrentPayableTotals returns the derived totals without mutating the
// document.
func (p *Payable) CurrentPayableTotals() totals.PayableTotals {
	return totals.PayableTotals{
		Totals:          p.CurrentTotals(),
		Advancement:     p.Advancement,
		RemainingAmount: p.RemainingAmount,
	}
}

// Validate implements entity.Validatable for payable documents.
func (p *Payable) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if !ValidPaymentType(p.PaymentType) {
		return apperror.NewValidation("invalid payment type").
			WithDetail("field", "paymentType").
			WithDetail("value", p.PaymentType)
	}

	for i, payment := range p.Payments {
		if !payment.Amount.IsPositive() {
			return apperror.NewValidation("payment amount must be positive").
				WithDetail("field", "payments").
				WithDetail("paymentNo", i+1)
		}
		if !ValidPaymentMethod(payment.PaymentMethod) {
			return apperror.NewValidation("invalid payment method").
				WithDetail("field", "payments").
				WithDetail("paymentNo", i+1).
				WithDetail("value", payment.PaymentMethod)
		}
	}

	return totals.CheckAdvancement(p.CurrentPayableTotals())
}
