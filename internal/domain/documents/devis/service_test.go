package devis

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"facturier/internal/core/apperror"
	"facturier/internal/core/id"
	"facturier/internal/core/numerator"
	"facturier/internal/domain"
	"facturier/internal/domain/documents"
)

// nopTxManager runs the function directly; service tests exercise the
// orchestration, not transactional behavior.
type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*Devis
	lines map[id.ID][]documents.Line

	// createErrs is consumed once per Create call, front to back.
	createErrs []error
	creates    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Devis),
		lines: make(map[id.ID][]documents.Line),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Devis) error {
	r.creates++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Devis, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("devis", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*Devis, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("devis", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *Devis) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("devis", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.Line, error) {
	return r.lines[docID], nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Devis], error) {
	result := domain.ListResult[*Devis]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range r.docs {
		cp := *doc
		result.Items = append(result.Items, &cp)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Devis, error) {
	return r.GetByID(ctx, docID)
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDevis() *Devis {
	doc := New("Atelier Bernard")
	doc.Lines = []documents.Line{
		{ArticleName: "Tôle acier", Quantity: dec("2"), V1: dec("3"), UnitPrice: dec("10")},
		{ArticleName: "Cornière", UnitPrice: dec("70")},
	}
	return doc
}

func TestCreate_AssignsNumberAndTotals(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if doc.Number != "DEV-1" {
		t.Errorf("Number = %q, want DEV-1", doc.Number)
	}
	if doc.Status != StatusBrouillon {
		t.Errorf("Status = %q, want brouillon", doc.Status)
	}
	if !doc.SubTotal.Equal(dec("130")) {
		t.Errorf("SubTotal = %s, want 130", doc.SubTotal)
	}

	stored, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("stored devis not found: %v", err)
	}
	if stored.Number != "DEV-1" {
		t.Errorf("stored Number = %q, want DEV-1", stored.Number)
	}
	if len(repo.lines[doc.ID]) != 2 {
		t.Errorf("stored lines = %d, want 2", len(repo.lines[doc.ID]))
	}
}

func TestCreate_KeepsClientNumber(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	doc.Number = "DEV-999"
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if doc.Number != "DEV-999" {
		t.Errorf("Number = %q, want DEV-999", doc.Number)
	}
}

func TestCreate_RetriesOnNumberConflict(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.createErrs = []error{apperror.NewNumberConflict("DEV-1")}
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if repo.creates != 2 {
		t.Errorf("create attempts = %d, want 2", repo.creates)
	}
	if doc.Number != "DEV-2" {
		t.Errorf("Number = %q, want DEV-2 after retry", doc.Number)
	}
}

func TestCreate_ClientNumberConflictIsFatal(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.createErrs = []error{apperror.NewNumberConflict("DEV-7")}
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	doc.Number = "DEV-7"
	err := svc.Create(ctx, doc)
	if !apperror.IsNumberConflict(err) {
		t.Fatalf("err = %v, want number conflict", err)
	}
	if repo.creates != 1 {
		t.Errorf("create attempts = %d, want 1 (no retry for client numbers)", repo.creates)
	}
}

func TestCreate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.createErrs = []error{
		apperror.NewNumberConflict("DEV-1"),
		apperror.NewNumberConflict("DEV-2"),
		apperror.NewNumberConflict("DEV-3"),
	}
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	err := svc.Create(ctx, newTestDevis())
	if !apperror.IsNumberConflict(err) {
		t.Fatalf("err = %v, want number conflict", err)
	}
	if repo.creates != 3 {
		t.Errorf("create attempts = %d, want 3", repo.creates)
	}
}

func TestCreate_RejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	doc.CustomerName = ""
	if err := svc.Create(ctx, doc); err == nil {
		t.Fatal("expected validation error")
	}
	if repo.creates != 0 {
		t.Errorf("create attempts = %d, want 0", repo.creates)
	}
}

func TestUpdate_RecomputesAndPreservesNumber(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc.Number = "DEV-777" // client attempts to change the number
	doc.Lines = []documents.Line{{ArticleName: "Portail", UnitPrice: dec("500")}}
	if err := svc.Update(ctx, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if doc.Number != "DEV-1" {
		t.Errorf("Number = %q, number must survive updates", doc.Number)
	}
	if !doc.Total.Equal(dec("500")) {
		t.Errorf("Total = %s, want 500", doc.Total)
	}
}

func TestUpdate_ConvertedIsImmutable(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	invoiceID := id.New()
	stored := repo.docs[doc.ID]
	stored.ConvertedToInvoice = true
	stored.ConvertedInvoiceID = &invoiceID
	stored.Status = StatusTransforme

	err := svc.Update(ctx, doc)
	if !apperror.IsAlreadyConverted(err) {
		t.Fatalf("err = %v, want already converted", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	doc := newTestDevis()
	if err := svc.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, doc.ID, StatusAccepte)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusAccepte {
		t.Errorf("Status = %q, want accepté", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, doc.ID, "inconnu"); err == nil {
		t.Error("expected error for unknown status")
	}

	if _, err := svc.UpdateStatus(ctx, doc.ID, StatusTransforme); err == nil {
		t.Error("expected error: transformé_facture is reserved for conversion")
	}
}

func TestHooks_BeforeCreateCanReject(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &numerator.MockGenerator{}, nopTxManager{})

	svc.Hooks().On(domain.BeforeCreate, func(ctx context.Context, doc *Devis) error {
		return fmt.Errorf("rejected by hook")
	})

	if err := svc.Create(ctx, newTestDevis()); err == nil {
		t.Fatal("expected hook rejection")
	}
	if repo.creates != 0 {
		t.Errorf("create attempts = %d, want 0", repo.creates)
	}
}
