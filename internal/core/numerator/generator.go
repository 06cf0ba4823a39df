// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
)

// Generator generates sequential document numbers.
// This is the domain contract - implementations live in infrastructure layer.
//
// Implementations are expected to participate in the caller's transaction
// when one is present in the context, so a rolled-back document creation
// can roll the allocated number back with it (Cached strategy trades this
// guarantee for speed).
type Generator interface {
	// GetNextNumber generates the next document number.
	// Pattern: PREFIX-N (e.g., FACT-42).
	GetNextNumber(ctx context.Context, cfg Config, opts *Options) (string, error)

	// SetNextNumber sets the last used value (for migration purposes).
	SetNextNumber(ctx context.Context, cfg Config, value int64) error
}
