// Package bonlivraison provides the BonLivraison document repository contract.
package bonlivraison

import (
	"context"
	"time"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
)

// Repository defines operations for bon de livraison documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *BonLivraison) error
	GetByID(ctx context.Context, docID id.ID) (*BonLivraison, error)
	GetByNumber(ctx context.Context, number string) (*BonLivraison, error)
	Update(ctx context.Context, doc *BonLivraison) error
	Delete(ctx context.Context, docID id.ID) error

	// Table part operations (replace-all semantics)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error
	GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error)
	SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*BonLivraison], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*BonLivraison, error)
}

// ListFilter for filtering bons de livraison.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	InvoiceID *id.ID
	DateFrom  *time.Time
	DateTo    *time.Time
}
