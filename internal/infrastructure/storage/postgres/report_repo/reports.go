// Package report_repo provides the PostgreSQL implementation of the
// analytics queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"facturier/internal/domain/reports"
	"facturier/internal/infrastructure/storage/postgres"
)

// kindTables maps report kinds to their document tables.
var kindTables = map[string]string{
	reports.KindDevis:        "doc_devis",
	reports.KindInvoice:      "doc_invoices",
	reports.KindBonLivraison: "doc_bons_livraison",
}

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ reports.Repository = (*ReportRepo)(nil)

// kindAggregate is the scan target for per-kind summary rows.
type kindAggregate struct {
	Count       int64           `db:"count"`
	SubTotal    decimal.Decimal `db:"sub_total"`
	Total       decimal.Decimal `db:"total"`
	Advancement decimal.Decimal `db:"advancement"`
	Remaining   decimal.Decimal `db:"remaining"`
}

// GetRevenueSummary aggregates counts and totals per document kind.
func (r *ReportRepo) GetRevenueSummary(ctx context.Context, filter reports.SummaryFilter) (*reports.RevenueSummary, error) {
	summary := &reports.RevenueSummary{GeneratedAt: time.Now().UTC()}

	devisAgg, err := r.kindSummary(ctx, "doc_devis", false, filter)
	if err != nil {
		return nil, err
	}
	invoiceAgg, err := r.kindSummary(ctx, "doc_invoices", true, filter)
	if err != nil {
		return nil, err
	}
	blAgg, err := r.kindSummary(ctx, "doc_bons_livraison", true, filter)
	if err != nil {
		return nil, err
	}

	summary.Devis = toKindSummary(reports.KindDevis, devisAgg)
	summary.Invoices = toKindSummary(reports.KindInvoice, invoiceAgg)
	summary.BonsLivraison = toKindSummary(reports.KindBonLivraison, blAgg)
	summary.OutstandingTotal = invoiceAgg.Remaining.Add(blAgg.Remaining)

	return summary, nil
}

func toKindSummary(kind string, agg *kindAggregate) reports.KindSummary {
	return reports.KindSummary{
		Kind:        kind,
		Count:       agg.Count,
		SubTotal:    agg.SubTotal,
		Total:       agg.Total,
		Advancement: agg.Advancement,
		Remaining:   agg.Remaining,
	}
}

// kindSummary runs the aggregate for one document table. A devis has no
// payment columns, so advancement and remaining stay zero for it.
func (r *ReportRepo) kindSummary(ctx context.Context, table string, payable bool, filter reports.SummaryFilter) (*kindAggregate, error) {
	cols := []string{
		"COUNT(*) AS count",
		"COALESCE(SUM(sub_total), 0) AS sub_total",
		"COALESCE(SUM(total), 0) AS total",
	}
	if payable {
		cols = append(cols,
			"COALESCE(SUM(advancement), 0) AS advancement",
			"COALESCE(SUM(remaining_amount), 0) AS remaining",
		)
	} else {
		cols = append(cols,
			"0::numeric AS advancement",
			"0::numeric AS remaining",
		)
	}

	q := r.builder.Select(cols...).From(table)

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.DateTo})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	var agg kindAggregate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &agg, sql, args...); err != nil {
		return nil, fmt.Errorf("summary %s: %w", table, err)
	}

	return &agg, nil
}

// GetStatusDistribution counts documents per status for one kind.
func (r *ReportRepo) GetStatusDistribution(ctx context.Context, kind string) (*reports.StatusDistribution, error) {
	table, ok := kindTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	q := r.builder.
		Select("status", "COUNT(*) AS count").
		From(table).
		GroupBy("status").
		OrderBy("count DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distribution: %w", err)
	}

	var items []reports.StatusCount
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("status distribution %s: %w", table, err)
	}

	return &reports.StatusDistribution{Kind: kind, Items: items}, nil
}

// monthlyRow is the scan target for the monthly revenue query.
type monthlyRow struct {
	Month     string          `db:"month"`
	Count     int64           `db:"count"`
	Invoiced  decimal.Decimal `db:"invoiced"`
	Collected decimal.Decimal `db:"collected"`
}

// GetMonthlyRevenue builds the per-month series for one year.
// Invoiced amounts follow issue dates; collected amounts follow payment
// dates, so a January invoice paid in March contributes to both months.
func (r *ReportRepo) GetMonthlyRevenue(ctx context.Context, year int) (*reports.MonthlyRevenueReport, error) {
	query := `
		WITH invoiced AS (
			SELECT to_char(date_trunc('month', issue_date), 'YYYY-MM') AS month,
			       COUNT(*) AS count,
			       COALESCE(SUM(total), 0) AS invoiced
			FROM doc_invoices
			WHERE EXTRACT(YEAR FROM issue_date) = $1
			GROUP BY 1
		),
		collected AS (
			SELECT to_char(date_trunc('month', payment_date), 'YYYY-MM') AS month,
			       COALESCE(SUM(amount), 0) AS collected
			FROM doc_invoice_payments
			WHERE EXTRACT(YEAR FROM payment_date) = $1
			GROUP BY 1
		)
		SELECT COALESCE(i.month, c.month) AS month,
		       COALESCE(i.count, 0) AS count,
		       COALESCE(i.invoiced, 0) AS invoiced,
		       COALESCE(c.collected, 0) AS collected
		FROM invoiced i
		FULL OUTER JOIN collected c ON c.month = i.month
		ORDER BY month
	`

	var rows []monthlyRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, year); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}

	report := &reports.MonthlyRevenueReport{
		Year:   year,
		Points: make([]reports.MonthlyRevenuePoint, 0, len(rows)),
	}
	for _, row := range rows {
		report.Points = append(report.Points, reports.MonthlyRevenuePoint{
			Month:     row.Month,
			Count:     row.Count,
			Invoiced:  row.Invoiced,
			Collected: row.Collected,
		})
	}

	return report, nil
}

// todayRow is the scan target for the today stats query.
type todayRow struct {
	DevisCreated     int64           `db:"devis_created"`
	InvoicesCreated  int64           `db:"invoices_created"`
	InvoicedTotal    decimal.Decimal `db:"invoiced_total"`
	PaymentsReceived decimal.Decimal `db:"payments_received"`
}

// GetTodayStats summarizes activity since midnight.
func (r *ReportRepo) GetTodayStats(ctx context.Context) (*reports.TodayStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM doc_devis WHERE created_at::date = CURRENT_DATE) AS devis_created,
			(SELECT COUNT(*) FROM doc_invoices WHERE created_at::date = CURRENT_DATE) AS invoices_created,
			(SELECT COALESCE(SUM(total), 0) FROM doc_invoices WHERE created_at::date = CURRENT_DATE) AS invoiced_total,
			(SELECT COALESCE(SUM(amount), 0) FROM doc_invoice_payments WHERE payment_date::date = CURRENT_DATE) AS payments_received
	`

	var row todayRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, query); err != nil {
		return nil, fmt.Errorf("today stats: %w", err)
	}

	return &reports.TodayStats{
		Date:             time.Now().UTC().Truncate(24 * time.Hour),
		DevisCreated:     row.DevisCreated,
		InvoicesCreated:  row.InvoicesCreated,
		InvoicedTotal:    row.InvoicedTotal,
		PaymentsReceived: row.PaymentsReceived,
	}, nil
}
