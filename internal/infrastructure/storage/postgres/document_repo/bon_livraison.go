package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facturier/internal/core/id"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/infrastructure/storage/postgres"
)

const (
	bonLivraisonTable         = "doc_bons_livraison"
	bonLivraisonLinesTable    = "doc_bon_livraison_lines"
	bonLivraisonPaymentsTable = "doc_bon_livraison_payments"
)

// BonLivraisonRepo implements bonlivraison.Repository.
type BonLivraisonRepo struct {
	*BaseDocumentRepo[*bonlivraison.BonLivraison]
}

// NewBonLivraisonRepo creates a new bon de livraison repository.
func NewBonLivraisonRepo(txManager *postgres.TxManager) *BonLivraisonRepo {
	return &BonLivraisonRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			bonLivraisonTable,
			postgres.ExtractDBColumns[bonlivraison.BonLivraison](),
			func() *bonlivraison.BonLivraison { return &bonlivraison.BonLivraison{} },
		),
	}
}

// GetLines retrieves delivery lines, including the delivered quantity.
func (r *BonLivraisonRepo) GetLines(ctx context.Context, docID id.ID) ([]bonlivraison.Line, error) {
	cols := append(append([]string{}, lineColumns...), "delivered_quantity")

	q := r.Builder().
		Select(cols...).
		From(bonLivraisonLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []bonlivraison.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the delivery line table part.
func (r *BonLivraisonRepo) SaveLines(ctx context.Context, docID id.ID, lines []bonlivraison.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + bonLivraisonLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(bonLivraisonLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "article_name",
			"quantity", "v1", "v2", "v3", "unit_price", "total_price",
			"delivered_quantity",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ArticleName,
			line.Quantity, line.V1, line.V2, line.V3, line.UnitPrice, line.TotalPrice,
			line.DeliveredQuantity,
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

// GetPayments retrieves payments for a bon de livraison.
func (r *BonLivraisonRepo) GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error) {
	return getPayments(ctx, r.Builder(), r.querier(ctx), bonLivraisonPaymentsTable, docID)
}

// SavePayments saves payments for a bon de livraison.
func (r *BonLivraisonRepo) SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error {
	return savePayments(ctx, r.Builder(), r.querier(ctx), bonLivraisonPaymentsTable, docID, payments)
}

// List retrieves bons de livraison with filtering.
func (r *BonLivraisonRepo) List(ctx context.Context, filter bonlivraison.ListFilter) (domain.ListResult[*bonlivraison.BonLivraison], error) {
	q := r.applyCommonFilter(r.baseSelect(), filter.ListFilter)

	if filter.InvoiceID != nil {
		q = q.Where(squirrel.Eq{"invoice_id": *filter.InvoiceID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issue_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issue_date": *filter.DateTo})
	}

	return r.finishList(ctx, q, filter.ListFilter)
}

// Ensure interface compliance at compile time.
var _ bonlivraison.Repository = (*BonLivraisonRepo)(nil)
