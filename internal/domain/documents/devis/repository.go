// Package devis provides the Devis document repository contract.
package devis

import (
	"context"
	"time"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
)

// Repository defines operations for devis documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Devis) error
	GetByID(ctx context.Context, docID id.ID) (*Devis, error)
	GetByNumber(ctx context.Context, number string) (*Devis, error)
	Update(ctx context.Context, doc *Devis) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations (replace-all semantics)
	GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Devis], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Devis, error)
}

// ListFilter for filtering devis.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	Converted *bool
	DateFrom  *time.Time
	DateTo    *time.Time
}
