// Package devis provides the Devis document (quote sent to a customer).
package devis

import (
	"context"
	"time"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/domain/documents"
)

// Devis lifecycle statuses (French, as printed on documents and stored).
const (
	StatusBrouillon  = "brouillon"
	StatusEnvoye     = "envoyé"
	StatusEnAttente  = "en_attente"
	StatusAccepte    = "accepté"
	StatusRefuse     = "refusé"
	StatusExpire     = "expiré"
	StatusTransforme = "transformé_facture"
)

// ValidStatus reports whether s is an accepted devis status.
func ValidStatus(s string) bool {
	switch s {
	case StatusBrouillon, StatusEnvoye, StatusEnAttente, StatusAccepte,
		StatusRefuse, StatusExpire, StatusTransforme:
		return true
	}
	return false
}

// Devis represents a quote. It carries no payments; once accepted it is
// converted into an invoice exactly once.
type Devis struct {
	documents.Document

	// ValidityDate is the date until which the quote holds.
	ValidityDate *time.Time `db:"validity_date" json:"validityDate,omitempty"`

	// Conversion marker. Set exactly once by the conversion service;
	// a devis is never converted twice.
	ConvertedToInvoice bool   `db:"converted_to_invoice" json:"convertedToInvoice"`
	ConvertedInvoiceID *id.ID `db:"converted_invoice_id" json:"convertedInvoiceId,omitempty"`
}

// New creates a new devis in draft status.
func New(customerName string) *Devis {
	d := &Devis{
		Document: documents.NewDocument(customerName),
	}
	d.Status = StatusBrouillon
	return d
}

// Validate implements entity.Validatable.
func (d *Devis) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if d.Status != "" && !ValidStatus(d.Status) {
		return apperror.NewValidation("invalid devis status").
			WithDetail("field", "status").
			WithDetail("value", d.Status)
	}

	return nil
}

// MarkConverted records the conversion result on the devis.
// Returns AlreadyConverted if the devis was converted before.
func (d *Devis) MarkConverted(invoiceID id.ID) error {
	if d.ConvertedToInvoice {
		return apperror.NewAlreadyConverted(d.Number, d.ConvertedInvoiceID)
	}

	d.ConvertedToInvoice = true
	d.ConvertedInvoiceID = &invoiceID
	d.Status = StatusTransforme
	return nil
}
