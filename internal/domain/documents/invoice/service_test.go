package invoice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs     map[id.ID]*Invoice
	lines    map[id.ID][]documents.Line
	payments map[id.ID][]documents.Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:     make(map[id.ID]*Invoice),
		lines:    make(map[id.ID][]documents.Line),
		payments: make(map[id.ID][]documents.Payment),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Invoice) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *Invoice) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	delete(r.payments, docID)
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return r.lines[docID], nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *fakeRepo) GetPayments(ctx context.Context, docID id.ID) ([]documents.Payment, error) {
	return r.payments[docID], nil
}

func (r *fakeRepo) SavePayments(ctx context.Context, docID id.ID, payments []documents.Payment) error {
	r.payments[docID] = payments
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	result := domain.ListResult[*Invoice]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range r.docs {
		cp := *doc
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return r.GetByID(ctx, docID)
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestInvoice() *Invoice {
	doc := New("Client SARL")
	doc.Lines = []documents.Line{
		{ArticleName: "Portail coulissant", UnitPrice: dec("800")},
		{ArticleName: "Pose", UnitPrice: dec("200")},
	}
	return doc
}

func createTestInvoice(t *testing.T, svc *Service) *Invoice {
	t.Helper()
	doc := newTestInvoice()
	if err := svc.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return doc
}

func TestCreate_StartsUnpaid(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := createTestInvoice(t, svc)

	if doc.Number != "FACT-1" {
		t.Errorf("Number = %q, want FACT-1", doc.Number)
	}
	if doc.PaymentType != documents.PaymentTypeNonPaye {
		t.Errorf("PaymentType = %q, want non_paye", doc.PaymentType)
	}
	if !doc.RemainingAmount.Equal(dec("1000")) {
		t.Errorf("RemainingAmount = %s, want 1000", doc.RemainingAmount)
	}
}

func TestAddPayment_UpdatesAggregation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := createTestInvoice(t, svc)

	updated, err := svc.AddPayment(ctx, doc.ID, documents.Payment{
		Amount:        dec("400"),
		PaymentMethod: documents.MethodEspece,
	})
	if err != nil {
		t.Fatalf("AddPayment: %v", err)
	}

	if !updated.Advancement.Equal(dec("400")) {
		t.Errorf("Advancement = %s, want 400", updated.Advancement)
	}
	if !updated.RemainingAmount.Equal(dec("600")) {
		t.Errorf("RemainingAmount = %s, want 600", updated.RemainingAmount)
	}
	if updated.PaymentType != documents.MethodEspece {
		t.Errorf("PaymentType = %q, want espece", updated.PaymentType)
	}
	if len(repo.payments[doc.ID]) != 1 {
		t.Errorf("stored payments = %d, want 1", len(repo.payments[doc.ID]))
	}
}

func TestAddPayment_SecondMethodFlipsToMultiple(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := createTestInvoice(t, svc)

	if _, err := svc.AddPayment(ctx, doc.ID, documents.Payment{
		Amount: dec("400"), PaymentMethod: documents.MethodEspece,
	}); err != nil {
		t.Fatalf("first AddPayment: %v", err)
	}

	updated, err := svc.AddPayment(ctx, doc.ID, documents.Payment{
		Amount: dec("600"), PaymentMethod: documents.MethodVirement,
	})
	if err != nil {
		t.Fatalf("second AddPayment: %v", err)
	}

	if updated.PaymentType != documents.PaymentTypeMultiple {
		t.Errorf("PaymentType = %q, want multiple", updated.PaymentType)
	}
	if !updated.RemainingAmount.IsZero() {
		t.Errorf("RemainingAmount = %s, want 0", updated.RemainingAmount)
	}
}

func TestAddPayment_RejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := createTestInvoice(t, svc)

	if _, err := svc.AddPayment(ctx, doc.ID, documents.Payment{
		Amount: dec("1500"), PaymentMethod: documents.MethodCheque,
	}); err == nil {
		t.Fatal("expected error: payment exceeds total")
	}

	if len(repo.payments[doc.ID]) != 0 {
		t.Errorf("stored payments = %d, rejected payment must not persist", len(repo.payments[doc.ID]))
	}
}

func TestNormalizePaymentType(t *testing.T) {
	tests := []struct {
		name     string
		preset   string
		payments []documents.Payment
		want     string
	}{
		{name: "no payments", want: documents.PaymentTypeNonPaye},
		{
			name:     "single method",
			payments: []documents.Payment{{PaymentMethod: documents.MethodCarte}},
			want:     documents.MethodCarte,
		},
		{
			name: "same method twice",
			payments: []documents.Payment{
				{PaymentMethod: documents.MethodEspece},
				{PaymentMethod: documents.MethodEspece},
			},
			want: documents.MethodEspece,
		},
		{
			name: "two methods",
			payments: []documents.Payment{
				{PaymentMethod: documents.MethodEspece},
				{PaymentMethod: documents.MethodCheque},
			},
			want: documents.PaymentTypeMultiple,
		},
		{
			name:     "explicit type wins",
			preset:   documents.PaymentTypeMultiple,
			payments: []documents.Payment{{PaymentMethod: documents.MethodEspece}},
			want:     documents.PaymentTypeMultiple,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := New("Client")
			inv.PaymentType = tt.preset
			inv.Payments = tt.payments

			inv.NormalizePaymentType()

			if inv.PaymentType != tt.want {
				t.Errorf("PaymentType = %q, want %q", inv.PaymentType, tt.want)
			}
		})
	}
}
