package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/invoice"
	"facturier/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable        = "doc_invoices"
	invoiceLinesTable    = "doc_invoice_lines"
	invoicePaymentsTable = "doc_invoice_payments"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// GetLines retrieves lines for an invoice.
func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return getLines(ctx, r.Builder(), r.querier(ctx), invoiceLinesTable, docID)
}

// SaveLines saves lines for an invoice (delete existing + insert new).
func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	return saveLines(ctx, r.Builder(), r.querier(ctx), invoiceLinesTable, docID, lines)
}

// GetPayments retrieves payments for an invoice.
func (r *InvoiceRepo) GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error) {
	return getPayments(ctx, r.Builder(), r.querier(ctx), invoicePaymentsTable, docID)
}

// SavePayments saves payments for an invoice (delete existing + insert new).
func (r *InvoiceRepo) SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error {
	return savePayments(ctx, r.Builder(), r.querier(ctx), invoicePaymentsTable, docID, payments)
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	q := r.applyCommonFilter(r.baseSelect(), filter.ListFilter)

	if filter.PaymentType != "" {
		q = q.Where(squirrel.Eq{"payment_type": filter.PaymentType})
	}
	if filter.DevisID != nil {
		q = q.Where(squirrel.Eq{"devis_id": *filter.DevisID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.DateTo})
	}

	return r.finishList(ctx, q, filter.ListFilter)
}

// --- shared payment helpers ---

var paymentColumns = []string{
	"payment_id", "amount", "payment_date", "payment_method", "reference", "notes",
}

// getPayments loads the payment table part ordered by date.
func getPayments(ctx context.Context, b squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID) ([]documents.Payment, error) {
	q := b.Select(paymentColumns...).
		From(table).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("payment_date", "payment_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []documents.Payment
	if err := pgxscan.Select(ctx, querier, &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}

	return payments, nil
}

// savePayments replaces the payment table part (delete existing + insert new).
func savePayments(ctx context.Context, b squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID, payments []documents.Payment) error {
	deleteSQL := "DELETE FROM " + table + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing payments: %w", err)
	}

	if len(payments) == 0 {
		return nil
	}

	q := b.Insert(table).
		Columns(
			"payment_id", "document_id", "amount",
			"payment_date", "payment_method", "reference", "notes",
		)

	for _, p := range payments {
		q = q.Values(
			p.PaymentID, docID, p.Amount,
			p.PaymentDate, p.PaymentMethod, p.Reference, p.Notes,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payments: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payments: %w", err)
	}

	return nil
}

// Ensure interface compliance at compile time.
var _ invoice.Repository = (*InvoiceRepo)(nil)
