// Package invoice provides the Invoice document repository contract.
package invoice

import (
	"context"
	"time"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
)

// Repository defines operations for invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	// Table part operations (replace-all semantics)
	GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error
	GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error)
	SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	PaymentType string
	DevisID     *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
}
