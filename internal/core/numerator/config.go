// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict allocates every number through the database sequence
	// row (UPSERT ... RETURNING). Guarantees gapless sequential numbers and
	// is the right choice for customer-facing documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may leave gaps if the application restarts.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
// Numbers never reset: the sequence for a prefix grows for the lifetime of
// the installation, so "FACT-42" is followed by "FACT-43" across years.
type Config struct {
	// Prefix added to all numbers (e.g., "DEV", "FACT", "BL")
	Prefix string
}

// DefaultConfig returns the configuration for a document prefix.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix}
}
