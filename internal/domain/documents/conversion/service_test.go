package conversion

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"
	"facturier/internal/domain/totals"
)

// nopTxManager runs the callback without a real transaction.
type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDevisRepo struct {
	docs  map[id.ID]*devis.Devis
	lines map[id.ID][]documents.Line
}

func newFakeDevisRepo() *fakeDevisRepo {
	return &fakeDevisRepo{
		docs:  make(map[id.ID]*devis.Devis),
		lines: make(map[id.ID][]documents.Line),
	}
}

func (r *fakeDevisRepo) Create(ctx context.Context, doc *devis.Devis) error {
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDevisRepo) GetByID(ctx context.Context, docID id.ID) (*devis.Devis, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("devis", docID)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDevisRepo) GetByNumber(ctx context.Context, number string) (*devis.Devis, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("devis", number)
}

func (r *fakeDevisRepo) Update(ctx context.Context, doc *devis.Devis) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("devis", doc.ID)
	}
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDevisRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeDevisRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return r.lines[docID], nil
}

func (r *fakeDevisRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *fakeDevisRepo) List(ctx context.Context, filter devis.ListFilter) (domain.ListResult[*devis.Devis], error) {
	return domain.ListResult[*devis.Devis]{}, nil
}

func (r *fakeDevisRepo) GetForUpdate(ctx context.Context, docID id.ID) (*devis.Devis, error) {
	return r.GetByID(ctx, docID)
}

type fakeInvoiceRepo struct {
	docs     map[id.ID]*invoice.Invoice
	lines    map[id.ID][]documents.Line
	payments map[id.ID][]documents.Payment
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		docs:     make(map[id.ID]*invoice.Invoice),
		lines:    make(map[id.ID][]documents.Line),
		payments: make(map[id.ID][]documents.Payment),
	}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, doc *invoice.Invoice) error {
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, doc *invoice.Invoice) error {
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeInvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return r.lines[docID], nil
}

func (r *fakeInvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *fakeInvoiceRepo) GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error) {
	return r.payments[docID], nil
}

func (r *fakeInvoiceRepo) SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error {
	r.payments[docID] = payments
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return domain.ListResult[*invoice.Invoice]{}, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	return r.GetByID(ctx, docID)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedDevis(t *testing.T, repo *fakeDevisRepo) *devis.Devis {
	t.Helper()

	d := devis.New("Atelier Bernard")
	d.Number = "DEV-7"
	d.CustomerPhone = "+212612345678"
	d.Notes = "Livraison sous 15 jours"
	d.DiscountType = totals.DiscountFixed
	d.DiscountValue = dec("10")
	d.Lines = []documents.Line{
		{ArticleName: "Tôle acier", Quantity: dec("1"), V1: dec("2"), V2: dec("2"), UnitPrice: dec("25")},
		{ArticleName: "Cornière", Quantity: dec("3"), UnitPrice: dec("10")},
	}
	d.Recompute()
	d.Status = devis.StatusAccepte

	ctx := context.Background()
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("seed devis: %v", err)
	}
	if err := repo.SaveLines(ctx, d.ID, d.Lines); err != nil {
		t.Fatalf("seed lines: %v", err)
	}
	return d
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	devisRepo := newFakeDevisRepo()
	invoiceRepo := newFakeInvoiceRepo()
	svc := NewService(devisRepo, invoiceRepo, &numerator.MockGenerator{}, nopTxManager{})

	src := seedDevis(t, devisRepo)

	inv, err := svc.Convert(ctx, src.ID)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if inv.Number != "FACT-1" {
		t.Errorf("invoice number = %q, want FACT-1", inv.Number)
	}
	if inv.Status != invoice.StatusBrouillon {
		t.Errorf("invoice status = %q, want brouillon", inv.Status)
	}
	if inv.PaymentType != documents.PaymentTypeNonPaye {
		t.Errorf("payment type = %q, want non_paye", inv.PaymentType)
	}
	if inv.CustomerName != src.CustomerName {
		t.Errorf("customer = %q, want %q", inv.CustomerName, src.CustomerName)
	}
	if inv.DevisID == nil || *inv.DevisID != src.ID {
		t.Error("invoice does not reference the source devis")
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("invoice lines = %d, want 2", len(inv.Lines))
	}

	// Amounts carried over: 100 + 30, minus fixed discount 10.
	if !inv.SubTotal.Equal(dec("130")) {
		t.Errorf("SubTotal = %s, want 130", inv.SubTotal)
	}
	if !inv.Total.Equal(dec("120")) {
		t.Errorf("Total = %s, want 120", inv.Total)
	}
	if !inv.RemainingAmount.Equal(dec("120")) {
		t.Errorf("RemainingAmount = %s, want 120 (nothing paid yet)", inv.RemainingAmount)
	}

	if inv.Notes != "Livraison sous 15 jours\nConverti depuis le devis: DEV-7" {
		t.Errorf("unexpected notes: %q", inv.Notes)
	}

	// The devis side is marked in the same operation.
	updated, err := devisRepo.GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("reload devis: %v", err)
	}
	if !updated.ConvertedToInvoice {
		t.Error("devis not marked converted")
	}
	if updated.Status != devis.StatusTransforme {
		t.Errorf("devis status = %q, want transformé_facture", updated.Status)
	}
	if updated.ConvertedInvoiceID == nil || *updated.ConvertedInvoiceID != inv.ID {
		t.Error("devis does not reference the created invoice")
	}
}

func TestConvert_Twice(t *testing.T) {
	ctx := context.Background()
	devisRepo := newFakeDevisRepo()
	invoiceRepo := newFakeInvoiceRepo()
	svc := NewService(devisRepo, invoiceRepo, &numerator.MockGenerator{}, nopTxManager{})

	src := seedDevis(t, devisRepo)

	if _, err := svc.Convert(ctx, src.ID); err != nil {
		t.Fatalf("first Convert() error: %v", err)
	}

	_, err := svc.Convert(ctx, src.ID)
	if !apperror.IsAlreadyConverted(err) {
		t.Fatalf("second Convert() error = %v, want AlreadyConverted", err)
	}

	if len(invoiceRepo.docs) != 1 {
		t.Errorf("invoices created = %d, want exactly 1", len(invoiceRepo.docs))
	}
}

func TestConvert_NotFound(t *testing.T) {
	svc := NewService(newFakeDevisRepo(), newFakeInvoiceRepo(), &numerator.MockGenerator{}, nopTxManager{})

	_, err := svc.Convert(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("Convert() error = %v, want NotFound", err)
	}
}

func TestAnnotateNotes_EmptySource(t *testing.T) {
	got := annotateNotes("  ", "DEV-3")
	if got != "Converti depuis le devis: DEV-3" {
		t.Errorf("annotateNotes() = %q", got)
	}
}
