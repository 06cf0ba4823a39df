package totals

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		in   LineInput
		want string
	}{
		{
			name: "all dimensions",
			in:   LineInput{Quantity: dec("2"), V1: dec("3"), V2: dec("1"), V3: dec("1"), UnitPrice: dec("10")},
			want: "60",
		},
		{
			name: "zero dimensions default to one",
			in:   LineInput{Quantity: dec("4"), UnitPrice: dec("2.5")},
			want: "10",
		},
		{
			name: "zero quantity defaults to one",
			in:   LineInput{UnitPrice: dec("7")},
			want: "7",
		},
		{
			name: "zero unit price stays zero",
			in:   LineInput{Quantity: dec("5"), V1: dec("2")},
			want: "0",
		},
		{
			name: "fractional dimensions",
			in:   LineInput{Quantity: dec("1"), V1: dec("2.5"), V2: dec("0.4"), V3: dec("1"), UnitPrice: dec("100")},
			want: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.in)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("LineTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompute_PercentageDiscount(t *testing.T) {
	items := []LineInput{
		{Quantity: dec("10"), V1: dec("1"), V2: dec("1"), V3: dec("1"), UnitPrice: dec("20")},
	}

	got := Compute(items, DiscountPercentage, dec("10"))

	if !got.SubTotal.Equal(dec("200")) {
		t.Errorf("SubTotal = %s, want 200", got.SubTotal)
	}
	if !got.DiscountAmount.Equal(dec("20")) {
		t.Errorf("DiscountAmount = %s, want 20", got.DiscountAmount)
	}
	if !got.Total.Equal(dec("180")) {
		t.Errorf("Total = %s, want 180", got.Total)
	}
}

func TestCompute_FixedDiscountClampsTotal(t *testing.T) {
	items := []LineInput{
		{Quantity: dec("3"), UnitPrice: dec("10")},
	}

	got := Compute(items, DiscountFixed, dec("50"))

	if !got.SubTotal.Equal(dec("30")) {
		t.Errorf("SubTotal = %s, want 30", got.SubTotal)
	}
	if !got.DiscountAmount.Equal(dec("50")) {
		t.Errorf("DiscountAmount = %s, want 50", got.DiscountAmount)
	}
	if !got.Total.IsZero() {
		t.Errorf("Total = %s, want 0 (clamped, never negative)", got.Total)
	}
}

func TestCompute_EmptyItems(t *testing.T) {
	got := Compute(nil, DiscountFixed, decimal.Zero)

	if !got.SubTotal.IsZero() || !got.Total.IsZero() {
		t.Errorf("empty items: got subTotal=%s total=%s, want zeros", got.SubTotal, got.Total)
	}
}

func TestCompute_SubTotalInvariantUnderReordering(t *testing.T) {
	a := LineInput{Quantity: dec("1"), V1: dec("2"), V2: dec("2"), UnitPrice: dec("25")}
	b := LineInput{Quantity: dec("3"), UnitPrice: dec("10")}
	c := LineInput{Quantity: dec("2.5"), V1: dec("0.4"), UnitPrice: dec("7")}

	forward := Compute([]LineInput{a, b, c}, DiscountFixed, decimal.Zero)
	reversed := Compute([]LineInput{c, b, a}, DiscountFixed, decimal.Zero)

	if !forward.SubTotal.Equal(reversed.SubTotal) {
		t.Errorf("subTotal depends on item order: %s vs %s", forward.SubTotal, reversed.SubTotal)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	items := []LineInput{
		{Quantity: dec("1"), V1: dec("2"), V2: dec("2"), V3: dec("1"), UnitPrice: dec("25")},
		{Quantity: dec("3"), V1: dec("1"), V2: dec("1"), V3: dec("1"), UnitPrice: dec("10")},
	}

	first := Compute(items, DiscountFixed, dec("10"))
	second := Compute(items, DiscountFixed, dec("10"))

	if first.SubTotal.String() != second.SubTotal.String() ||
		first.DiscountAmount.String() != second.DiscountAmount.String() ||
		first.Total.String() != second.Total.String() {
		t.Errorf("repeated computation diverged: %+v vs %+v", first, second)
	}
}

func TestCompute_EndToEndScenario(t *testing.T) {
	// Devis with two items and a fixed discount of 10.
	items := []LineInput{
		{Quantity: dec("1"), V1: dec("2"), V2: dec("2"), V3: dec("1"), UnitPrice: dec("25")},
		{Quantity: dec("3"), V1: dec("1"), V2: dec("1"), V3: dec("1"), UnitPrice: dec("10")},
	}

	got := Compute(items, DiscountFixed, dec("10"))

	if !got.SubTotal.Equal(dec("130")) {
		t.Errorf("SubTotal = %s, want 130", got.SubTotal)
	}
	if !got.DiscountAmount.Equal(dec("10")) {
		t.Errorf("DiscountAmount = %s, want 10", got.DiscountAmount)
	}
	if !got.Total.Equal(dec("120")) {
		t.Errorf("Total = %s, want 120", got.Total)
	}
}

func TestComputePayable(t *testing.T) {
	items := []LineInput{
		{Quantity: dec("10"), UnitPrice: dec("20")},
	}
	payments := []decimal.Decimal{dec("100"), dec("50")}

	got := ComputePayable(items, DiscountPercentage, dec("10"), payments)

	if !got.Total.Equal(dec("180")) {
		t.Errorf("Total = %s, want 180", got.Total)
	}
	if !got.Advancement.Equal(dec("150")) {
		t.Errorf("Advancement = %s, want 150", got.Advancement)
	}
	if !got.RemainingAmount.Equal(dec("30")) {
		t.Errorf("RemainingAmount = %s, want 30", got.RemainingAmount)
	}
}

func TestComputePayable_OverpaymentClampsRemaining(t *testing.T) {
	items := []LineInput{
		{Quantity: dec("1"), UnitPrice: dec("100")},
	}
	payments := []decimal.Decimal{dec("80"), dec("80")}

	got := ComputePayable(items, DiscountFixed, decimal.Zero, payments)

	if !got.RemainingAmount.IsZero() {
		t.Errorf("RemainingAmount = %s, want 0 (never negative)", got.RemainingAmount)
	}
	if !got.Advancement.Equal(dec("160")) {
		t.Errorf("Advancement = %s, want 160", got.Advancement)
	}
}

func TestComputePayable_NoPayments(t *testing.T) {
	items := []LineInput{{Quantity: dec("2"), UnitPrice: dec("15")}}

	got := ComputePayable(items, DiscountFixed, decimal.Zero, nil)

	if !got.Advancement.IsZero() {
		t.Errorf("Advancement = %s, want 0", got.Advancement)
	}
	if !got.RemainingAmount.Equal(dec("30")) {
		t.Errorf("RemainingAmount = %s, want 30", got.RemainingAmount)
	}
}

func TestParseDiscountType(t *testing.T) {
	tests := []struct {
		raw  string
		want DiscountType
	}{
		{"fixed", DiscountFixed},
		{"percentage", DiscountPercentage},
		{"", DiscountFixed},
		{"amount", DiscountFixed},
		{"PERCENTAGE", DiscountFixed},
	}

	for _, tt := range tests {
		if got := ParseDiscountType(tt.raw); got != tt.want {
			t.Errorf("ParseDiscountType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCheckDiscount(t *testing.T) {
	ok := Compute([]LineInput{{Quantity: dec("2"), UnitPrice: dec("50")}}, DiscountFixed, dec("100"))
	if err := CheckDiscount(ok); err != nil {
		t.Errorf("discount equal to subtotal should pass: %v", err)
	}

	bad := Compute([]LineInput{{Quantity: dec("1"), UnitPrice: dec("30")}}, DiscountFixed, dec("50"))
	if err := CheckDiscount(bad); err == nil {
		t.Error("discount exceeding subtotal should be rejected")
	}
}

func TestCheckAdvancement(t *testing.T) {
	items := []LineInput{{Quantity: dec("1"), UnitPrice: dec("100")}}

	ok := ComputePayable(items, DiscountFixed, decimal.Zero, []decimal.Decimal{dec("100")})
	if err := CheckAdvancement(ok); err != nil {
		t.Errorf("advancement equal to total should pass: %v", err)
	}

	bad := ComputePayable(items, DiscountFixed, decimal.Zero, []decimal.Decimal{dec("120")})
	if err := CheckAdvancement(bad); err == nil {
		t.Error("advancement exceeding total should be rejected")
	}
}

func TestNextNumber(t *testing.T) {
	tests := []struct {
		prefix   string
		lastUsed int64
		want     string
	}{
		{"FACT", 41, "FACT-42"},
		{"DEV", 0, "DEV-1"},
		{"BL", 999, "BL-1000"},
	}

	for _, tt := range tests {
		if got := NextNumber(tt.prefix, tt.lastUsed); got != tt.want {
			t.Errorf("NextNumber(%q, %d) = %q, want %q", tt.prefix, tt.lastUsed, got, tt.want)
		}
	}
}
