package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/infrastructure/storage/postgres"
)

const (
	devisTable      = "doc_devis"
	devisLinesTable = "doc_devis_lines"
)

// DevisRepo implements devis.Repository.
type DevisRepo struct {
	*BaseDocumentRepo[*devis.Devis]
}

// NewDevisRepo creates a new devis repository.
func NewDevisRepo(txManager *postgres.TxManager) *DevisRepo {
	return &DevisRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			devisTable,
			postgres.ExtractDBColumns[devis.Devis](),
			func() *devis.Devis { return &devis.Devis{} },
		),
	}
}

// GetLines retrieves lines for a devis.
func (r *DevisRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return getLines(ctx, r.Builder(), r.querier(ctx), devisLinesTable, docID)
}

// SaveLines saves lines for a devis (delete existing + insert new).
func (r *DevisRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	return saveLines(ctx, r.Builder(), r.querier(ctx), devisLinesTable, docID, lines)
}

// List retrieves devis with filtering.
func (r *DevisRepo) List(ctx context.Context, filter devis.ListFilter) (domain.ListResult[*devis.Devis], error) {
	q := r.applyCommonFilter(r.baseSelect(), filter.ListFilter)

	if filter.Converted != nil {
		q = q.Where(squirrel.Eq{"converted_to_invoice": *filter.Converted})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.DateTo})
	}

	return r.finishList(ctx, q, filter.ListFilter)
}

// --- shared line helpers ---

var lineColumns = []string{
	"line_id", "line_no", "article_name",
	"quantity", "v1", "v2", "v3", "unit_price", "total_price",
}

// getLines loads the line table part ordered by line number.
func getLines(ctx context.Context, b squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID) ([]documents.Line, error) {
	q := b.Select(lineColumns...).
		From(table).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []documents.Line
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// saveLines replaces the line table part (delete existing + insert new).
func saveLines(ctx context.Context, b squirrel.StatementBuilderType, querier postgres.Querier, table string, docID id.ID, lines []documents.Line) error {
	deleteSQL := "DELETE FROM " + table + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := b.Insert(table).
		Columns(
			"line_id", "document_id", "line_no", "article_name",
			"quantity", "v1", "v2", "v3", "unit_price", "total_price",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ArticleName,
			line.Quantity, line.V1, line.V2, line.V3, line.UnitPrice, line.TotalPrice,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// Ensure interface compliance at compile time.
var _ devis.Repository = (*DevisRepo)(nil)
