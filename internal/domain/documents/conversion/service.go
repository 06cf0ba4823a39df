// Package conversion turns an accepted devis into a facture.
//
// The conversion is the only place allowed to set the transformé_facture
// status and the conversion markers on a devis. It runs in one transaction
// with the devis row locked, so two concurrent conversions of the same
// devis produce exactly one invoice.
package conversion

import (
	"context"
	"fmt"
	"strings"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/core/tx"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"
	"facturier/pkg/logger"
)

const numberAttempts = 3

// Service converts devis into invoices.
type Service struct {
	devisRepo   devis.Repository
	invoiceRepo invoice.Repository
	numerator   numerator.Generator
	txManager   tx.Manager
}

// NewService creates a conversion service.
func NewService(
	devisRepo devis.Repository,
	invoiceRepo invoice.Repository,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		devisRepo:   devisRepo,
		invoiceRepo: invoiceRepo,
		numerator:   gen,
		txManager:   txManager,
	}
}

// Convert creates an invoice from the devis identified by devisID.
//
// The new invoice copies the customer, the line items and the discount
// verbatim, starts as an unpaid draft, and notes its origin. The devis is
// marked converted in the same transaction; converting twice returns
// AlreadyConverted and leaves both documents untouched.
func (s *Service) Convert(ctx context.Context, devisID id.ID) (*invoice.Invoice, error) {
	var result *invoice.Invoice

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			src, terr := s.devisRepo.GetForUpdate(ctx, devisID)
			if terr != nil {
				return terr
			}
			if src.ConvertedToInvoice {
				return apperror.NewAlreadyConverted(src.Number, src.ConvertedInvoiceID)
			}

			lines, terr := s.devisRepo.GetLines(ctx, devisID)
			if terr != nil {
				return fmt.Errorf("get devis lines: %w", terr)
			}
			src.Lines = lines

			inv := s.buildInvoice(src)

			number, terr := s.numerator.GetNextNumber(ctx,
				numerator.DefaultConfig(invoice.NumberPrefix),
				&numerator.Options{Strategy: invoice.NumeratorStrategy})
			if terr != nil {
				return fmt.Errorf("generate number: %w", terr)
			}
			inv.Number = number

			if terr := s.invoiceRepo.Create(ctx, inv); terr != nil {
				return fmt.Errorf("create invoice: %w", terr)
			}
			if terr := s.invoiceRepo.SaveLines(ctx, inv.ID, inv.Lines); terr != nil {
				return fmt.Errorf("save invoice lines: %w", terr)
			}
			if terr := s.invoiceRepo.SavePayments(ctx, inv.ID, inv.Payments); terr != nil {
				return fmt.Errorf("save invoice payments: %w", terr)
			}

			if terr := src.MarkConverted(inv.ID); terr != nil {
				return terr
			}
			if terr := s.devisRepo.Update(ctx, src); terr != nil {
				return fmt.Errorf("mark devis converted: %w", terr)
			}

			result = inv
			return nil
		})

		if err == nil || !apperror.IsNumberConflict(err) {
			break
		}
	}

	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "devis converted to invoice",
		"devis_id", devisID,
		"invoice_id", result.ID,
		"invoice_number", result.Number)

	return result, nil
}

// buildInvoice copies the devis content into a fresh unpaid draft invoice.
func (s *Service) buildInvoice(src *devis.Devis) *invoice.Invoice {
	inv := invoice.New(src.CustomerName)
	inv.CustomerPhone = src.CustomerPhone
	inv.DiscountType = src.DiscountType
	inv.DiscountValue = src.DiscountValue
	inv.DevisID = &src.ID

	inv.Notes = annotateNotes(src.Notes, src.Number)

	inv.Lines = make([]documents.Line, len(src.Lines))
	for i, line := range src.Lines {
		copied := line
		copied.LineID = id.Nil() // fresh identifiers on the invoice side
		inv.Lines[i] = copied
	}

	inv.Recompute()
	return inv
}

// annotateNotes appends the conversion origin to the devis notes.
func annotateNotes(notes, devisNumber string) string {
	origin := fmt.Sprintf("Converti depuis le devis: %s", devisNumber)
	if strings.TrimSpace(notes) == "" {
		return origin
	}
	return notes + "\n" + origin
}
