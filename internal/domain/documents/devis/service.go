// Package devis provides the Devis document service.
package devis

import (
	"context"
	"fmt"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/core/tx"
	"facturier/internal/domain"
	"facturier/pkg/logger"
)

// numberAttempts bounds retries when a generated document number collides
// with a concurrently created document.
const numberAttempts = 3

// Service provides business operations for devis documents.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Devis]
}

// NewService creates a new devis service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Devis](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Devis] {
	return s.hooks
}

// Create creates a new devis. Totals are recomputed from the submitted
// lines, the number is allocated inside the creating transaction, and the
// document row and its lines are written atomically.
func (s *Service) Create(ctx context.Context, doc *Devis) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = StatusBrouillon
	}

	doc.Recompute()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	generated := doc.Number == ""

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if generated {
				number, nerr := s.numerator.GetNextNumber(ctx,
					numerator.DefaultConfig(NumberPrefix),
					&numerator.Options{Strategy: NumeratorStrategy})
				if nerr != nil {
					return fmt.Errorf("generate number: %w", nerr)
				}
				doc.Number = number
			}

			if cerr := s.repo.Create(ctx, doc); cerr != nil {
				return fmt.Errorf("create document: %w", cerr)
			}

			if lerr := s.repo.SaveLines(ctx, doc.ID, doc.Lines); lerr != nil {
				return fmt.Errorf("save lines: %w", lerr)
			}

			return nil
		})

		// A client-supplied number that collides is a hard error;
		// only regenerated numbers are worth another attempt.
		if err == nil || !generated || !apperror.IsNumberConflict(err) {
			break
		}
		doc.Number = ""
	}

	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "devis created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves a devis with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Devis, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves a devis by its human-readable number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Devis, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update rewrites a devis: header fields plus the full line set
// (replace-all). Totals are recomputed server-side; a converted devis is
// immutable.
func (s *Service) Update(ctx context.Context, doc *Devis) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if current.ConvertedToInvoice {
		return apperror.NewAlreadyConverted(current.Number, current.ConvertedInvoiceID)
	}

	// Conversion markers are owned by the conversion service.
	doc.ConvertedToInvoice = current.ConvertedToInvoice
	doc.ConvertedInvoiceID = current.ConvertedInvoiceID
	doc.Number = current.Number
	if doc.Status == "" {
		doc.Status = current.Status
	}

	doc.Recompute()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if uerr := s.repo.Update(ctx, doc); uerr != nil {
			return fmt.Errorf("update document: %w", uerr)
		}

		if lerr := s.repo.SaveLines(ctx, doc.ID, doc.Lines); lerr != nil {
			return fmt.Errorf("save lines: %w", lerr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	return nil
}

// UpdateStatus sets the lifecycle status only, leaving everything else
// untouched. Transitions are permissive except for the conversion marker,
// which only the conversion service may set.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, status string) (*Devis, error) {
	if !ValidStatus(status) {
		return nil, apperror.NewValidation("invalid devis status").
			WithDetail("field", "status").
			WithDetail("value", status)
	}
	if status == StatusTransforme {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"status transformé_facture is set by conversion only")
	}

	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.ConvertedToInvoice {
		return nil, apperror.NewAlreadyConverted(doc.Number, doc.ConvertedInvoiceID)
	}

	doc.Status = status

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	logger.Info(ctx, "devis status updated",
		"id", doc.ID,
		"status", status)

	return doc, nil
}

// Delete removes a devis with its lines.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "devis deleted", "id", docID, "number", doc.Number)

	return nil
}

// List retrieves devis with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Devis], error) {
	return s.repo.List(ctx, filter)
}
