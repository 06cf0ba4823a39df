// Package pdf renders billing documents as printable PDFs.
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"facturier/internal/core/types"
	"facturier/internal/domain/documents"
	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"
	"facturier/internal/domain/totals"
)

const dateLayout = "02/01/2006"

// Workshop identifies the issuing business on the printed header.
type Workshop struct {
	Name    string
	Address string
	Phone   string
}

// Renderer builds PDF documents for the three billing kinds.
type Renderer struct {
	workshop Workshop
}

// NewRenderer creates a renderer printing workshop details in the header.
func NewRenderer(workshop Workshop) *Renderer {
	return &Renderer{workshop: workshop}
}

// RenderDevis renders a quote.
func (r *Renderer) RenderDevis(d *devis.Devis) ([]byte, error) {
	m := r.newDocument()

	r.addHeader(m, "Devis", &d.Document)
	if d.ValidityDate != nil {
		m.AddRow(8,
			text.NewCol(12, "Valable jusqu'au : "+d.ValidityDate.Format(dateLayout),
				props.Text{Size: 9}),
		)
	}
	r.addLinesTable(m, d.Lines)
	r.addTotals(m, &d.Document)
	r.addNotes(m, d.Notes)

	return generate(m)
}

// RenderInvoice renders a facture including the payment summary.
func (r *Renderer) RenderInvoice(inv *invoice.Invoice) ([]byte, error) {
	m := r.newDocument()

	r.addHeader(m, "Facture", &inv.Document)
	r.addLinesTable(m, inv.Lines)
	r.addTotals(m, &inv.Document)
	r.addPaymentSummary(m, &inv.Payable)
	r.addNotes(m, inv.Notes)

	return generate(m)
}

// RenderBonLivraison renders a delivery note with delivered quantities and
// the delivery participants block.
func (r *Renderer) RenderBonLivraison(bl *bonlivraison.BonLivraison) ([]byte, error) {
	m := r.newDocument()

	r.addHeader(m, "Bon de livraison", &bl.Document)
	r.addDeliveryLinesTable(m, bl.DeliveryLines)
	r.addTotals(m, &bl.Document)
	r.addPaymentSummary(m, &bl.Payable)
	r.addDeliveryBlock(m, bl)
	r.addNotes(m, bl.Notes)

	return generate(m)
}

func (r *Renderer) newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	return maroto.New(cfg)
}

func (r *Renderer) addHeader(m core.Maroto, title string, doc *documents.Document) {
	m.AddRow(24,
		col.New(7).Add(
			text.New(r.workshop.Name, props.Text{Size: 14, Style: fontstyle.Bold}),
			text.New(r.workshop.Address, props.Text{Size: 9, Top: 7}),
			text.New(r.workshop.Phone, props.Text{Size: 9, Top: 12}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right}),
			text.New("N° "+doc.Number, props.Text{Size: 11, Top: 9, Align: align.Right}),
			text.New("Date : "+doc.IssueDate.Format(dateLayout),
				props.Text{Size: 9, Top: 15, Align: align.Right}),
		),
	)

	customer := []core.Component{
		text.New("Client", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.New(doc.CustomerName, props.Text{Size: 10, Top: 5}),
	}
	if doc.CustomerPhone != "" {
		customer = append(customer,
			text.New("Tél : "+doc.CustomerPhone, props.Text{Size: 9, Top: 10}))
	}
	m.AddRow(18, col.New(12).Add(customer...))
	m.AddRow(2, line.NewCol(12))
}

func (r *Renderer) addLinesTable(m core.Maroto, lines []documents.Line) {
	m.AddRow(8,
		text.NewCol(4, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Dimensions", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "P.U.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, l := range lines {
		m.AddRow(7,
			text.NewCol(4, l.ArticleName, props.Text{Size: 9}),
			text.NewCol(1, formatQuantity(l.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, formatDimensions(l), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, types.FormatMoney(l.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, types.FormatMoney(l.TotalPrice), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func (r *Renderer) addDeliveryLinesTable(m core.Maroto, lines []bonlivraison.Line) {
	m.AddRow(8,
		text.NewCol(4, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Livré", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Dimensions", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "P.U.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, l := range lines {
		m.AddRow(7,
			text.NewCol(4, l.ArticleName, props.Text{Size: 9}),
			text.NewCol(1, formatQuantity(l.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatQuantity(l.DeliveredQuantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatDimensions(l.Line), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, types.FormatMoney(l.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, types.FormatMoney(l.TotalPrice), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func (r *Renderer) addTotals(m core.Maroto, doc *documents.Document) {
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Sous-total", props.Text{Size: 9}),
		text.NewCol(2, types.FormatMoney(doc.SubTotal), props.Text{Size: 9, Align: align.Right}),
	)
	if doc.DiscountAmount.IsPositive() {
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, discountLabel(doc), props.Text{Size: 9}),
			text.NewCol(2, "-"+types.FormatMoney(doc.DiscountAmount),
				props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total à payer", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, types.FormatMoney(doc.Total),
			props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func (r *Renderer) addPaymentSummary(m core.Maroto, p *documents.Payable) {
	if !p.Advancement.IsPositive() {
		return
	}
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Acompte", props.Text{Size: 9}),
		text.NewCol(2, types.FormatMoney(p.Advancement), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Montant restant", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, types.FormatMoney(p.RemainingAmount),
			props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func (r *Renderer) addDeliveryBlock(m core.Maroto, bl *bonlivraison.BonLivraison) {
	m.AddRow(4, col.New(12))
	m.AddRow(20,
		col.New(4).Add(
			text.New("Préparé par", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(orDash(bl.PreparedBy), props.Text{Size: 9, Top: 5}),
		),
		col.New(4).Add(
			text.New("Livré par", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(orDash(bl.DeliveredBy), props.Text{Size: 9, Top: 5}),
		),
		col.New(4).Add(
			text.New("Reçu par", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(orDash(bl.ReceiverName), props.Text{Size: 9, Top: 5}),
			text.New("Signature : "+bl.ReceiverSignature, props.Text{Size: 8, Top: 10}),
		),
	)
}

func (r *Renderer) addNotes(m core.Maroto, notes string) {
	if notes == "" {
		return
	}
	m.AddRow(4, col.New(12))
	m.AddRow(16, col.New(12).Add(
		text.New("Notes", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.New(notes, props.Text{Size: 8, Top: 5}),
	))
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// Filename builds the download name for a rendered document.
func Filename(number string) string {
	return fmt.Sprintf("%s_%s.pdf", number, time.Now().Format("2006-01-02"))
}

func discountLabel(doc *documents.Document) string {
	if doc.DiscountType == totals.DiscountPercentage {
		return fmt.Sprintf("Remise (%s%%)", doc.DiscountValue.String())
	}
	return "Remise"
}

// formatDimensions prints the volumetric multipliers, skipping absent ones.
func formatDimensions(l documents.Line) string {
	dims := ""
	for _, v := range []decimal.Decimal{l.V1, l.V2, l.V3} {
		if v.IsZero() {
			continue
		}
		if dims != "" {
			dims += " × "
		}
		dims += v.String()
	}
	if dims == "" {
		return "-"
	}
	return dims
}

func formatQuantity(q decimal.Decimal) string {
	if q.IsZero() {
		return "1"
	}
	return q.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
