package devis

import "facturier/internal/core/numerator"

const (
	// NumberPrefix is the devis number prefix ("DEV-42").
	NumberPrefix = "DEV"

	// NumeratorStrategy defines the numbering strategy for this document type.
	// Devis are customer-facing, so numbers must stay gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
