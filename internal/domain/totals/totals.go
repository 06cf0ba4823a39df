// Package totals computes line-item and document totals for all billing
// document kinds (devis, invoice, bon de livraison).
//
// Every amount a document carries is derived here and nowhere else: the
// line-total formula, the discount, the grand total and the payment
// aggregation are computed by this one package so the three document kinds
// can never drift apart. All functions are pure and stateless; callers
// persist the results themselves.
package totals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
)

// DiscountType selects how a document discount is interpreted.
type DiscountType string

const (
	// DiscountFixed subtracts the discount value directly from the subtotal.
	DiscountFixed DiscountType = "fixed"

	// DiscountPercentage subtracts subTotal × value / 100.
	DiscountPercentage DiscountType = "percentage"
)

// ParseDiscountType maps a raw string to a DiscountType.
// Anything other than "percentage" is treated as fixed. This fallback is a
// deliberate policy choice matching the observed default behavior of the
// billing documents, not an inference.
func ParseDiscountType(s string) DiscountType {
	if s == string(DiscountPercentage) {
		return DiscountPercentage
	}
	return DiscountFixed
}

// LineInput carries the raw pricing fields of one line item.
// Quantity and the three dimension multipliers (length, width, height)
// default to 1 when zero; UnitPrice defaults to 0.
type LineInput struct {
	Quantity  decimal.Decimal
	V1        decimal.Decimal
	V2        decimal.Decimal
	V3        decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals holds the derived amounts shared by every document kind.
type Totals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// PayableTotals extends Totals with payment aggregation for invoices and
// delivery notes. A devis has no advancement concept and never uses it.
type PayableTotals struct {
	Totals

	Advancement     decimal.Decimal
	RemainingAmount decimal.Decimal
}

var one = decimal.NewFromInt(1)

// orOne substitutes the default multiplier for absent dimensions.
func orOne(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return one
	}
	return d
}

// LineTotal computes quantity × v1 × v2 × v3 × unitPrice.
// Zero quantity or dimension multipliers count as 1; a zero unit price
// yields a zero total.
func LineTotal(in LineInput) decimal.Decimal {
	return orOne(in.Quantity).
		Mul(orOne(in.V1)).
		Mul(orOne(in.V2)).
		Mul(orOne(in.V3)).
		Mul(in.UnitPrice)
}

// discountAmount derives the discount from the subtotal.
func discountAmount(subTotal, value decimal.Decimal, dt DiscountType) decimal.Decimal {
	if dt == DiscountPercentage {
		return subTotal.Mul(value).Div(decimal.NewFromInt(100))
	}
	return value
}

// Compute derives the totals of a document without payments (devis).
//
// subTotal is the sum of all line totals (0 for an empty list), the discount
// follows the DiscountType, and the grand total is clamped at zero. The
// clamp is the only correction Compute applies; discounts exceeding the
// subtotal are a caller-side validation concern (see CheckDiscount).
func Compute(items []LineInput, dt DiscountType, discountValue decimal.Decimal) Totals {
	subTotal := decimal.Zero
	for _, in := range items {
		subTotal = subTotal.Add(LineTotal(in))
	}

	discount := discountAmount(subTotal, discountValue, dt)

	total := subTotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		SubTotal:       subTotal,
		DiscountAmount: discount,
		Total:          total,
	}
}

// ComputePayable derives the totals of a payable document (invoice, bon de
// livraison), aggregating the supplied payment amounts into advancement and
// remainingAmount. The remaining amount is clamped at zero; overpayment
// rejection belongs to the validation layer (see CheckAdvancement).
func ComputePayable(items []LineInput, dt DiscountType, discountValue decimal.Decimal, payments []decimal.Decimal) PayableTotals {
	base := Compute(items, dt, discountValue)

	advancement := decimal.Zero
	for _, amount := range payments {
		advancement = advancement.Add(amount)
	}

	remaining := base.Total.Sub(advancement)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return PayableTotals{
		Totals:          base,
		Advancement:     advancement,
		RemainingAmount: remaining,
	}
}

// CheckDiscount rejects a discount exceeding the subtotal.
// The engine clamps only the grand total; this check runs before persistence
// so a nonsensical discount never reaches storage.
func CheckDiscount(t Totals) error {
	if t.DiscountAmount.GreaterThan(t.SubTotal) {
		return apperror.NewValidation("discount cannot exceed subtotal").
			WithDetail("discount_amount", t.DiscountAmount.String()).
			WithDetail("sub_total", t.SubTotal.String())
	}
	return nil
}

// CheckAdvancement rejects payments summing to more than the grand total.
func CheckAdvancement(t PayableTotals) error {
	if t.Advancement.GreaterThan(t.Total) {
		return apperror.NewValidation("advancement cannot exceed total").
			WithDetail("advancement", t.Advancement.String()).
			WithDetail("total", t.Total.String())
	}
	return nil
}

// NextNumber formats the next human-readable document number from the
// highest numeric identifier already used for the given prefix:
// NextNumber("FACT", 41) == "FACT-42".
//
// The function is stateless and gives no uniqueness guarantee under
// concurrent callers; the storage layer serializes allocation through a
// sequence row and a unique constraint on the number column, and creation
// retries on conflict (see infrastructure/numerator).
func NextNumber(prefix string, lastUsed int64) string {
	return fmt.Sprintf("%s-%d", prefix, lastUsed+1)
}
