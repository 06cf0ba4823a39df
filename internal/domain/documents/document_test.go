package documents

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"facturier/internal/core/id"
	"facturier/internal/domain/totals"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecompute_DerivesTotals(t *testing.T) {
	doc := NewDocument("Atelier Bernard")
	doc.DiscountType = totals.DiscountFixed
	doc.DiscountValue = dec("10")
	doc.Lines = []Line{
		{ArticleName: "Tôle acier", Quantity: dec("2"), V1: dec("3"), UnitPrice: dec("10")},
		{ArticleName: "Cornière", UnitPrice: dec("70")},
	}

	doc.Recompute()

	if !doc.SubTotal.Equal(dec("130")) {
		t.Errorf("SubTotal = %s, want 130", doc.SubTotal)
	}
	if !doc.DiscountAmount.Equal(dec("10")) {
		t.Errorf("DiscountAmount = %s, want 10", doc.DiscountAmount)
	}
	if !doc.Total.Equal(dec("120")) {
		t.Errorf("Total = %s, want 120", doc.Total)
	}
}

func TestRecompute_PreservesStatus(t *testing.T) {
	doc := NewDocument("Atelier Bernard")
	doc.Status = "accepté"
	doc.Lines = []Line{{ArticleName: "Portail", UnitPrice: dec("500")}}

	doc.Recompute()

	if doc.Status != "accepté" {
		t.Errorf("Status = %q, want accepté", doc.Status)
	}
}

func TestNormalizeLines(t *testing.T) {
	existing := id.New()
	doc := NewDocument("Client")
	doc.Lines = []Line{
		{LineID: existing, ArticleName: "A", UnitPrice: dec("10")},
		{ArticleName: "B", Quantity: dec("3"), UnitPrice: dec("5")},
	}

	doc.NormalizeLines()

	if doc.Lines[0].LineID != existing {
		t.Error("existing line id replaced")
	}
	if id.IsNil(doc.Lines[1].LineID) {
		t.Error("new line did not get an id")
	}
	if doc.Lines[0].LineNo != 1 || doc.Lines[1].LineNo != 2 {
		t.Errorf("line numbers = %d, %d, want 1, 2", doc.Lines[0].LineNo, doc.Lines[1].LineNo)
	}
	if !doc.Lines[0].TotalPrice.Equal(dec("10")) {
		t.Errorf("line 1 total = %s, want 10", doc.Lines[0].TotalPrice)
	}
	if !doc.Lines[1].TotalPrice.Equal(dec("15")) {
		t.Errorf("line 2 total = %s, want 15", doc.Lines[1].TotalPrice)
	}
}

func TestPayableRecompute_AggregatesPayments(t *testing.T) {
	p := NewPayable("Client SARL")
	p.Lines = []Line{{ArticleName: "Escalier", UnitPrice: dec("1000")}}
	p.Payments = []Payment{
		{Amount: dec("300"), PaymentMethod: MethodEspece},
		{Amount: dec("200"), PaymentMethod: MethodCheque},
	}

	p.Recompute()

	if !p.Advancement.Equal(dec("500")) {
		t.Errorf("Advancement = %s, want 500", p.Advancement)
	}
	if !p.RemainingAmount.Equal(dec("500")) {
		t.Errorf("RemainingAmount = %s, want 500", p.RemainingAmount)
	}
	if p.PaymentType != PaymentTypeNonPaye {
		t.Errorf("PaymentType = %q, recompute must not touch it", p.PaymentType)
	}
	for i, payment := range p.Payments {
		if id.IsNil(payment.PaymentID) {
			t.Errorf("payment %d did not get an id", i+1)
		}
		if payment.PaymentDate.IsZero() {
			t.Errorf("payment %d did not get a date", i+1)
		}
	}
}

func TestDocumentValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(d *Document) {},
		},
		{
			name:    "missing customer name",
			mutate:  func(d *Document) { d.CustomerName = "" },
			wantErr: true,
		},
		{
			name:    "negative discount",
			mutate:  func(d *Document) { d.DiscountValue = dec("-5") },
			wantErr: true,
		},
		{
			name:    "missing article name",
			mutate:  func(d *Document) { d.Lines[0].ArticleName = "" },
			wantErr: true,
		},
		{
			name:    "negative quantity",
			mutate:  func(d *Document) { d.Lines[0].Quantity = dec("-1") },
			wantErr: true,
		},
		{
			name:    "negative unit price",
			mutate:  func(d *Document) { d.Lines[0].UnitPrice = dec("-10") },
			wantErr: true,
		},
		{
			name: "fixed discount exceeding subtotal",
			mutate: func(d *Document) {
				d.DiscountValue = dec("1000")
				d.Recompute()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument("Client")
			doc.Lines = []Line{{ArticleName: "Grille", Quantity: dec("2"), UnitPrice: dec("40")}}
			doc.Recompute()
			tt.mutate(&doc)

			err := doc.Validate(ctx)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPayableValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*Payable)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(p *Payable) {},
		},
		{
			name:    "invalid payment type",
			mutate:  func(p *Payable) { p.PaymentType = "troc" },
			wantErr: true,
		},
		{
			name:    "zero payment amount",
			mutate:  func(p *Payable) { p.Payments[0].Amount = decimal.Zero },
			wantErr: true,
		},
		{
			name:    "invalid payment method",
			mutate:  func(p *Payable) { p.Payments[0].PaymentMethod = "bitcoin" },
			wantErr: true,
		},
		{
			name: "payments exceeding total",
			mutate: func(p *Payable) {
				p.Payments[0].Amount = dec("5000")
				p.Recompute()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPayable("Client")
			p.Lines = []Line{{ArticleName: "Portail", UnitPrice: dec("800")}}
			p.Payments = []Payment{{Amount: dec("300"), PaymentMethod: MethodVirement}}
			p.Recompute()
			tt.mutate(&p)

			err := p.Validate(ctx)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
