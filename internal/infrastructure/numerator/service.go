// Package numerator implements document auto-numbering on top of a
// PostgreSQL sequence table.
//
// The doc_sequences table keeps one row per prefix with the last allocated
// value; Strict allocation bumps it with UPSERT ... RETURNING inside the
// caller's transaction, so a rolled-back document creation releases its
// number unless another creation already claimed the next one.
package numerator

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"facturier/internal/core/numerator"
	"facturier/internal/infrastructure/storage/postgres"
)

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering functionality.
type Service struct {
	// staticQuerier is used directly when set (tests)
	staticQuerier Querier
	// txManager resolves the querier per call, joining an active transaction
	txManager *postgres.TxManager

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// Compile-time check against the domain contract.
var _ numerator.Generator = (*Service)(nil)

// New creates a numerator service with a fixed querier. Use in tests.
func New(querier Querier) *Service {
	return &Service{
		staticQuerier: querier,
		ranges:        make(map[string]*cachedRange),
	}
}

// NewWithTxManager creates a numerator service that resolves its querier
// through the transaction manager, so Strict allocations run inside the
// caller's transaction.
func NewWithTxManager(txManager *postgres.TxManager) *Service {
	return &Service{
		txManager: txManager,
		ranges:    make(map[string]*cachedRange),
	}
}

func (s *Service) getQuerier(ctx context.Context) Querier {
	if s.txManager != nil {
		return s.txManager.GetQuerier(ctx)
	}
	return s.staticQuerier
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-N (e.g., FACT-42).
func (s *Service) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = numerator.DefaultOptions()
	}

	var num int64
	var err error

	switch opts.Strategy {
	case numerator.StrategyCached:
		num, err = s.getNextCached(ctx, cfg.Prefix, opts)
	case numerator.StrategyStrict:
		fallthrough
	default:
		num, err = s.getNextStrict(ctx, cfg.Prefix)
	}

	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", cfg.Prefix, num), nil
}

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (s *Service) getNextStrict(ctx context.Context, prefix string) (int64, error) {
	var num int64
	err := s.getQuerier(ctx).QueryRow(ctx, `
        INSERT INTO doc_sequences (prefix, last_value)
        VALUES ($1, 1)
        ON CONFLICT (prefix) DO UPDATE SET last_value = doc_sequences.last_value + 1
        RETURNING last_value
	`, prefix).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached fetches next number from memory, refilling from DB if needed.
func (s *Service) getNextCached(ctx context.Context, prefix string, opts *numerator.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[prefix]
	if !exists {
		rng = &cachedRange{}
		s.ranges[prefix] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// Reserve 'size' numbers in one bump: the usable range is
		// (newMax - size, newMax].
		var newMax int64
		err := s.getQuerier(ctx).QueryRow(ctx, `
            INSERT INTO doc_sequences (prefix, last_value)
            VALUES ($1, $2)
            ON CONFLICT (prefix) DO UPDATE SET last_value = doc_sequences.last_value + $2
            RETURNING last_value
		`, prefix, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the last used value (for migration purposes) and drops
// any cached range for the prefix.
func (s *Service) SetNextNumber(ctx context.Context, cfg numerator.Config, value int64) error {
	var result int64
	err := s.getQuerier(ctx).QueryRow(ctx, `
		INSERT INTO doc_sequences (prefix, last_value)
		VALUES ($1, $2)
		ON CONFLICT (prefix) DO UPDATE SET last_value = $2
		RETURNING last_value
	`, cfg.Prefix, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, cfg.Prefix)
	s.cacheMu.Unlock()

	return err
}
