// Package bonlivraison provides the BonLivraison document (delivery note).
package bonlivraison

import (
	"context"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/domain/documents"
)

// BonLivraison lifecycle statuses. Same set as invoices minus the dispute
// status, which only applies to factures.
const (
	StatusBrouillon     = "brouillon"
	StatusEnvoyee       = "envoyée"
	StatusEnAttente     = "en_attente"
	StatusPayee         = "payée"
	StatusPartiellement = "partiellement_payée"
	StatusEnRetard      = "en_retard"
	StatusAnnulee       = "annulée"
	StatusAcompteRecu   = "acompte_reçu"
)

// ValidStatus reports whether s is an accepted bon de livraison status.
func ValidStatus(s string) bool {
	switch s {
	case StatusBrouillon, StatusEnvoyee, StatusEnAttente, StatusPayee,
		StatusPartiellement, StatusEnRetard, StatusAnnulee, StatusAcompteRecu:
		return true
	}
	return false
}

// BonLivraison represents a delivery note. It is payable like an invoice
// and additionally records who prepared, delivered and received the goods.
type BonLivraison struct {
	documents.Payable

	// InvoiceID links the delivery note to its invoice when one exists.
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	// Delivery participants
	PreparedBy        string `db:"prepared_by" json:"preparedBy,omitempty"`
	DeliveredBy       string `db:"delivered_by" json:"deliveredBy,omitempty"`
	ReceiverName      string `db:"receiver_name" json:"receiverName,omitempty"`
	ReceiverSignature string `db:"receiver_signature" json:"receiverSignature,omitempty"`

	// Table part: delivery lines (shadow Payable.Lines with the delivered
	// quantity added; Recompute keeps both in sync)
	DeliveryLines []Line `db:"-" json:"items"`
}

// Line extends the shared line with the quantity actually delivered, which
// may fall short of the ordered quantity.
type Line struct {
	documents.Line

	DeliveredQuantity decimal.Decimal `db:"delivered_quantity" json:"deliveredQuantity"`
}

// New creates a new bon de livraison in draft status, unpaid.
func New(customerName string) *BonLivraison {
	bl := &BonLivraison{
		Payable:       documents.NewPayable(customerName),
		DeliveryLines: make([]Line, 0),
	}
	bl.Status = StatusBrouillon
	return bl
}

// Recompute derives totals from the delivery lines. Pricing always follows
// the ordered quantity; DeliveredQuantity defaults to the ordered quantity
// when absent and never affects amounts.
func (bl *BonLivraison) Recompute() {
	bl.Lines = make([]documents.Line, len(bl.DeliveryLines))
	for i := range bl.DeliveryLines {
		bl.Lines[i] = bl.DeliveryLines[i].Line
	}

	bl.Payable.Recompute()

	for i := range bl.DeliveryLines {
		bl.DeliveryLines[i].Line = bl.Lines[i]
		if bl.DeliveryLines[i].DeliveredQuantity.IsZero() {
			bl.DeliveryLines[i].DeliveredQuantity = orderedQuantity(bl.Lines[i])
		}
	}
}

// orderedQuantity is the effective quantity after default substitution.
func orderedQuantity(l documents.Line) decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return l.Quantity
}

// Validate implements entity.Validatable.
func (bl *BonLivraison) Validate(ctx context.Context) error {
	if err := bl.Payable.Validate(ctx); err != nil {
		return err
	}

	if bl.Status != "" && !ValidStatus(bl.Status) {
		return apperror.NewValidation("invalid bon de livraison status").
			WithDetail("field", "status").
			WithDetail("value", bl.Status)
	}

	for i, line := range bl.DeliveryLines {
		if line.DeliveredQuantity.IsNegative() {
			return apperror.NewValidation("delivered quantity cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
