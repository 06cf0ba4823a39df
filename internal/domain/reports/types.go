// Package reports provides billing analytics: revenue summaries, status
// distributions and monthly revenue series across the three document kinds.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document kinds as used in report filters and results.
const (
	KindDevis        = "devis"
	KindInvoice      = "invoice"
	KindBonLivraison = "bon_livraison"
)

// ValidKind reports whether k names a document kind.
func ValidKind(k string) bool {
	return k == KindDevis || k == KindInvoice || k == KindBonLivraison
}

// --- Revenue summary ---

// SummaryFilter restricts the summary to an issue-date window.
type SummaryFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

// KindSummary aggregates one document kind.
type KindSummary struct {
	Kind        string          `json:"kind"`
	Count       int64           `json:"count"`
	SubTotal    decimal.Decimal `json:"subTotal"`
	Total       decimal.Decimal `json:"total"`
	Advancement decimal.Decimal `json:"advancement"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// RevenueSummary is the headline dashboard block: one aggregate per kind
// plus the total still owed across invoices and delivery notes.
type RevenueSummary struct {
	GeneratedAt time.Time `json:"generatedAt"`

	Devis         KindSummary `json:"devis"`
	Invoices      KindSummary `json:"invoices"`
	BonsLivraison KindSummary `json:"bonsLivraison"`

	OutstandingTotal decimal.Decimal `json:"outstandingTotal"`
}

// --- Status distribution ---

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatusDistribution lists document counts per lifecycle status for a kind.
type StatusDistribution struct {
	Kind  string        `json:"kind"`
	Items []StatusCount `json:"items"`
}

// --- Monthly revenue ---

// MonthlyRevenuePoint is one month of invoicing activity.
// Invoiced follows issue dates; Collected follows payment dates, so the two
// columns of the same month usually differ.
type MonthlyRevenuePoint struct {
	Month     string          `json:"month"` // "2026-08"
	Count     int64           `json:"count"`
	Invoiced  decimal.Decimal `json:"invoiced"`
	Collected decimal.Decimal `json:"collected"`
}

// MonthlyRevenueReport is the per-month series for one calendar year.
type MonthlyRevenueReport struct {
	Year   int                   `json:"year"`
	Points []MonthlyRevenuePoint `json:"points"`
}

// --- Today ---

// TodayStats summarizes activity since midnight.
type TodayStats struct {
	Date             time.Time       `json:"date"`
	DevisCreated     int64           `json:"devisCreated"`
	InvoicesCreated  int64           `json:"invoicesCreated"`
	InvoicedTotal    decimal.Decimal `json:"invoicedTotal"`
	PaymentsReceived decimal.Decimal `json:"paymentsReceived"`
}
