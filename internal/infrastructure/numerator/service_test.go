package numerator

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"facturier/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the doc_sequences UPSERT: every call bumps the
// stored value by the increment argument (1 for strict allocation).
type mockQuerier struct {
	mu        sync.Mutex
	lastValue int64
	calls     int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.lastValue += increment
	m.calls++

	return &mockRow{val: m.lastValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := numerator.DefaultConfig("FACT")

	num, err := svc.GetNextNumber(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FACT-1" {
		t.Errorf("expected FACT-1, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FACT-2" {
		t.Errorf("expected FACT-2, got %s", num)
	}

	if q.calls != 2 {
		t.Errorf("strict strategy must hit the database per number, got %d calls", q.calls)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := numerator.DefaultConfig("BL")

	opts := &numerator.Options{
		Strategy:  numerator.StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10 in one database round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BL-1" {
		t.Errorf("expected BL-1, got %s", num)
	}
	if q.lastValue != 10 {
		t.Errorf("expected reserved up to 10, got %d", q.lastValue)
	}

	// Second call comes from memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BL-2" {
		t.Errorf("expected BL-2, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected a single database call, got %d", q.calls)
	}

	// Exhaust the range; the next call refills from the database.
	for i := 0; i < 8; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BL-11" {
		t.Errorf("expected BL-11, got %s", num)
	}
	if q.lastValue != 20 {
		t.Errorf("expected reserved up to 20, got %d", q.lastValue)
	}
}

func TestGetNextNumber_PrefixesIndependent(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	opts := &numerator.Options{Strategy: numerator.StrategyCached, RangeSize: 5}

	if _, err := svc.GetNextNumber(ctx, numerator.DefaultConfig("DEV"), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A different prefix gets its own cached range and its own reservation.
	if _, err := svc.GetNextNumber(ctx, numerator.DefaultConfig("BL"), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.calls != 2 {
		t.Errorf("expected one reservation per prefix, got %d calls", q.calls)
	}
}
