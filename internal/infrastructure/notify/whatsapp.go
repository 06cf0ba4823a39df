// Package notify builds customer-facing share links for billing documents.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"facturier/internal/core/types"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"

	"facturier/internal/core/apperror"
)

const waBaseURL = "https://wa.me/"

// DevisLink builds the wa.me deep link announcing a quote to the customer.
func DevisLink(d *devis.Devis) (string, error) {
	msg := fmt.Sprintf(
		"Bonjour %s, votre devis %s d'un montant de %s est prêt. N'hésitez pas à nous contacter pour toute question.",
		d.CustomerName, d.Number, types.FormatMoney(d.Total))
	return link(d.CustomerPhone, msg)
}

// InvoiceLink builds the wa.me deep link announcing an invoice. The message
// mentions the remaining amount when an advance has been paid.
func InvoiceLink(inv *invoice.Invoice) (string, error) {
	msg := fmt.Sprintf(
		"Bonjour %s, votre facture %s d'un montant de %s est disponible.",
		inv.CustomerName, inv.Number, types.FormatMoney(inv.Total))
	if inv.Advancement.IsPositive() {
		msg += fmt.Sprintf(" Acompte reçu : %s. Montant restant : %s.",
			types.FormatMoney(inv.Advancement), types.FormatMoney(inv.RemainingAmount))
	}
	return link(inv.CustomerPhone, msg)
}

// BonLivraisonLink builds the wa.me deep link announcing a delivery note.
func BonLivraisonLink(bl *bonlivraison.BonLivraison) (string, error) {
	msg := fmt.Sprintf(
		"Bonjour %s, votre bon de livraison %s est prêt. Montant total : %s.",
		bl.CustomerName, bl.Number, types.FormatMoney(bl.Total))
	return link(bl.CustomerPhone, msg)
}

// DocumentLink dispatches on the concrete document kind.
func DocumentLink(doc any) (string, error) {
	switch d := doc.(type) {
	case *devis.Devis:
		return DevisLink(d)
	case *invoice.Invoice:
		return InvoiceLink(d)
	case *bonlivraison.BonLivraison:
		return BonLivraisonLink(d)
	case *documents.Document:
		msg := fmt.Sprintf("Bonjour %s, votre document %s est prêt.",
			d.CustomerName, d.Number)
		return link(d.CustomerPhone, msg)
	}
	return "", apperror.NewInternal(fmt.Errorf("unsupported document type %T", doc))
}

func link(phone, message string) (string, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	return waBaseURL + normalized + "?text=" + url.QueryEscape(message), nil
}

// NormalizePhone strips formatting characters and the leading plus so the
// number fits the wa.me path segment (digits only, international format).
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '+':
			// formatting only
		default:
			return "", apperror.NewValidation("invalid phone number").
				WithDetail("phone", phone)
		}
	}
	if b.Len() < 6 {
		return "", apperror.NewValidation("phone number too short").
			WithDetail("phone", phone)
	}
	return b.String(), nil
}
