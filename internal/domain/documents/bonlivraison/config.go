package bonlivraison

import "facturier/internal/core/numerator"

const (
	// NumberPrefix is the delivery note number prefix ("BL-42").
	NumberPrefix = "BL"

	// NumeratorStrategy defines the numbering strategy for this document type.
	// Delivery notes are internal paperwork; gaps after a restart are
	// acceptable, so the cached strategy is fine here.
	NumeratorStrategy = numerator.StrategyCached
)
