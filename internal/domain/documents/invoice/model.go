// Package invoice provides the Invoice document (facture).
package invoice

import (
	"context"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/domain/documents"
)

// Invoice lifecycle statuses (French, as printed on documents and stored).
const (
	StatusBrouillon     = "brouillon"
	StatusEnvoyee       = "envoyée"
	StatusEnAttente     = "en_attente"
	StatusPayee         = "payée"
	StatusPartiellement = "partiellement_payée"
	StatusEnRetard      = "en_retard"
	StatusAnnulee       = "annulée"
	StatusEnLitige      = "en_litige"
	StatusAcompteRecu   = "acompte_reçu"
)

// ValidStatus reports whether s is an accepted invoice status.
func ValidStatus(s string) bool {
	switch s {
	case StatusBrouillon, StatusEnvoyee, StatusEnAttente, StatusPayee,
		StatusPartiellement, StatusEnRetard, StatusAnnulee,
		StatusEnLitige, StatusAcompteRecu:
		return true
	}
	return false
}

// Invoice represents a facture: a payable billing document accumulating
// partial payments (avancements) until settled.
type Invoice struct {
	documents.Payable

	// DevisID links back to the source devis when the invoice was created
	// by conversion.
	DevisID *id.ID `db:"devis_id" json:"devisId,omitempty"`
}

// New creates a new invoice in draft status, unpaid.
func New(customerName string) *Invoice {
	inv := &Invoice{
		Payable: documents.NewPayable(customerName),
	}
	inv.Status = StatusBrouillon
	return inv
}

// NormalizePaymentType derives the payment type from the recorded payments
// when the caller did not set one: no payments means non_paye, one distinct
// method means that method, several distinct methods mean multiple.
// An explicitly set payment type is left alone.
func (inv *Invoice) NormalizePaymentType() {
	if inv.PaymentType != "" {
		return
	}

	methods := make(map[string]struct{})
	for _, p := range inv.Payments {
		methods[p.PaymentMethod] = struct{}{}
	}

	switch len(methods) {
	case 0:
		inv.PaymentType = documents.PaymentTypeNonPaye
	case 1:
		for m := range methods {
			inv.PaymentType = m
		}
	default:
		inv.PaymentType = documents.PaymentTypeMultiple
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Payable.Validate(ctx); err != nil {
		return err
	}

	if inv.Status != "" && !ValidStatus(inv.Status) {
		return apperror.NewValidation("invalid invoice status").
			WithDetail("field", "status").
			WithDetail("value", inv.Status)
	}

	return nil
}
