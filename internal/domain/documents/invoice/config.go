package invoice

import "facturier/internal/core/numerator"

const (
	// NumberPrefix is the invoice number prefix ("FACT-42").
	NumberPrefix = "FACT"

	// NumeratorStrategy defines the numbering strategy for this document type.
	// Invoices are accounting documents, numbers must stay gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
