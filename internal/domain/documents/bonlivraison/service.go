// Package bonlivraison provides the BonLivraison document service.
package bonlivraison

import (
	"context"
	"fmt"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/core/tx"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
	"facturier/pkg/logger"
)

// numberAttempts bounds retries when a generated document number collides
// with a concurrently created document.
const numberAttempts = 3

// Service provides business operations for bon de livraison documents.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*BonLivraison]
}

// NewService creates a new bon de livraison service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*BonLivraison](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*BonLivraison] {
	return s.hooks
}

// Create creates a new bon de livraison with lines and payments written
// atomically. Totals are recomputed server-side.
func (s *Service) Create(ctx context.Context, doc *BonLivraison) error {
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
			if lerr := s.repo.SaveLines(ctx, doc.ID, doc.DeliveryLines); lerr != nil {
				return fmt.Errorf("save lines: %w", lerr)
			}
			if perr := s.repo.SavePayments(ctx, doc.ID, doc.Payments); perr != nil {
				return fmt.Errorf("save payments: %w", perr)
			}

			return nil
		})

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

	logger.Info(ctx, "bon de livraison created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves a bon de livraison with lines and payments.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*BonLivraison, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.loadParts(ctx, doc)
}

// GetByNumber retrieves a bon de livraison by its human-readable number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*BonLivraison, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.loadParts(ctx, doc)
}

func (s *Service) loadParts(ctx context.Context, doc *BonLivraison) (*BonLivraison, error) {
	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.DeliveryLines = lines
	doc.Lines = make([]documents.Line, len(lines))
	for i := range lines {
		doc.Lines[i] = lines[i].Line
	}

	payments, err := s.repo.GetPayments(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	doc.Payments = payments

	return doc, nil
}

// Update rewrites a bon de livraison: header plus the full line and payment
// sets (replace-all). Totals are recomputed server-side.
func (s *Service) Update(ctx context.Context, doc *BonLivraison) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

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
		if lerr := s.repo.SaveLines(ctx, doc.ID, doc.DeliveryLines); lerr != nil {
			return fmt.Errorf("save lines: %w", lerr)
		}
		if perr := s.repo.SavePayments(ctx, doc.ID, doc.Payments); perr != nil {
			return fmt.Errorf("save payments: %w", perr)
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

// UpdateStatus sets the lifecycle status only.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, status string) (*BonLivraison, error) {
	if !ValidStatus(status) {
		return nil, apperror.NewValidation("invalid bon de livraison status").
			WithDetail("field", "status").
			WithDetail("value", status)
	}

	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.Status = status

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	logger.Info(ctx, "bon de livraison status updated",
		"id", doc.ID,
		"status", status)

	return doc, nil
}

// Delete removes a bon de livraison with its lines and payments.
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

	logger.Info(ctx, "bon de livraison deleted", "id", docID, "number", doc.Number)

	return nil
}

// List retrieves bons de livraison with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*BonLivraison], error) {
	return s.repo.List(ctx, filter)
}
