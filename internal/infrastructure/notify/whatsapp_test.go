package notify

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		want    string
		wantErr bool
	}{
		{name: "plain digits", phone: "212661234567", want: "212661234567"},
		{name: "international plus", phone: "+212 661-23.45.67", want: "212661234567"},
		{name: "parentheses", phone: "(0661) 23 45 67", want: "0661234567"},
		{name: "letters rejected", phone: "06 61 AB 45 67", wantErr: true},
		{name: "too short", phone: "12345", wantErr: true},
		{name: "empty", phone: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.phone)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePhone(%q) = %q, want error", tt.phone, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) error: %v", tt.phone, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestDevisLink(t *testing.T) {
	d := devis.New("Atelier Bernard")
	d.Number = "DEV-42"
	d.CustomerPhone = "+212 661 23 45 67"
	d.Lines = []documents.Line{
		{ArticleName: "Tôle acier", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(30)},
	}
	d.Recompute()

	got, err := DevisLink(d)
	if err != nil {
		t.Fatalf("DevisLink: %v", err)
	}

	if !strings.HasPrefix(got, "https://wa.me/212661234567?text=") {
		t.Fatalf("unexpected link prefix: %s", got)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	msg := u.Query().Get("text")
	for _, want := range []string{"Atelier Bernard", "DEV-42", "120.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestInvoiceLink_MentionsRemaining(t *testing.T) {
	inv := invoice.New("Client SARL")
	inv.Number = "FACT-7"
	inv.CustomerPhone = "0661234567"
	inv.Lines = []documents.Line{
		{ArticleName: "Portail", UnitPrice: decimal.NewFromInt(500)},
	}
	inv.Payments = []documents.Payment{
		{Amount: decimal.NewFromInt(200), PaymentMethod: documents.MethodEspece},
	}
	inv.Recompute()

	got, err := InvoiceLink(inv)
	if err != nil {
		t.Fatalf("InvoiceLink: %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	msg := u.Query().Get("text")
	for _, want := range []string{"FACT-7", "500.00", "200.00", "300.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestDevisLink_NoPhone(t *testing.T) {
	d := devis.New("Sans Téléphone")
	d.Number = "DEV-1"

	if _, err := DevisLink(d); err == nil {
		t.Fatal("expected error for empty phone")
	}
}
