package render

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
)

// PDFFontFamily is the UTF-8 font every PDF is set in. The core PDF fonts
// are cp1252 only and cannot draw Arabic.
const PDFFontFamily = "dejavusans"

//go:embed fonts/*.ttf
var fontFS embed.FS

var loadPDFFonts = sync.OnceValues(func() ([]*entity.CustomFont, error) {
	regular, err := fontFS.ReadFile("fonts/DejaVuSansCondensed.ttf")
	if err != nil {
		return nil, err
	}
	bold, err := fontFS.ReadFile("fonts/DejaVuSansCondensed-Bold.ttf")
	if err != nil {
		return nil, err
	}
	return repository.New().
		AddUTF8FontFromBytes(PDFFontFamily, fontstyle.Normal, regular).
		AddUTF8FontFromBytes(PDFFontFamily, fontstyle.Italic, regular).
		AddUTF8FontFromBytes(PDFFontFamily, fontstyle.Bold, bold).
		AddUTF8FontFromBytes(PDFFontFamily, fontstyle.BoldItalic, bold).
		Load()
})

// PDF renders one order as an A4 PDF invoice.
func (r *Renderer) PDF(o models.Order, s models.Settings, lang string) ([]byte, error) {
	if lang == "" {
		lang = i18n.Default
	}
	t := func(code string) string { return i18n.T(lang, code) }
	inv := r.invoiceFor(o, ModeSingle, r.now(), t)

	fonts, err := loadPDFFonts()
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF fonts: %w", err)
	}
	cfg := config.NewBuilder().
		WithCustomFonts(fonts).
		WithDefaultFont(&props.Font{Family: PDFFontFamily}).
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()
	m := maroto.New(cfg)

	addPDFHeader(m, s, inv, t)
	addPDFParties(m, inv, t)
	addPDFLines(m, inv, t)
	addPDFFooter(m, s, inv, t)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPDFHeader(m core.Maroto, s models.Settings, inv invoiceView, t func(string) string) {
	m.AddRow(24,
		col.New(7).Add(
			text.New(s.CompanyName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
			text.New(strings.Join(s.ContactLines(), " | "), props.Text{Size: 8, Top: 9, Align: align.Left}),
		),
		col.New(5).Add(
			text.New(t("invoice_title"), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
			text.New("# "+inv.Number, props.Text{Size: 10, Top: 9, Align: align.Right}),
		),
	)
	m.AddRow(5, line.NewCol(12))
	m.AddRow(8,
		col.New(4).Add(text.New(t("invoice_date")+": "+inv.Date, props.Text{Size: 9, Align: align.Left})),
		col.New(4).Add(text.New(t("invoice_number")+": "+inv.Number, props.Text{Size: 9, Align: align.Center})),
		col.New(4).Add(text.New(t("order_status")+": "+inv.Status, props.Text{Size: 9, Align: align.Right})),
	)
}

func addPDFParties(m core.Maroto, inv invoiceView, t func(string) string) {
	party := func(title string, p models.Party) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
			text.New(p.Name, props.Text{Size: 9, Top: 5, Align: align.Left}),
			text.New(p.Phone, props.Text{Size: 9, Top: 10, Align: align.Left}),
			text.New(p.Address, props.Text{Size: 9, Top: 15, Align: align.Left}),
		)
	}
	m.AddRow(24, party(t("sender"), inv.Sender), party(t("receiver"), inv.Receiver))
	m.AddRow(5, line.NewCol(12))
}

func addPDFLines(m core.Maroto, inv invoiceView, t func(string) string) {
	head := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center}
	m.AddRow(8,
		col.New(1).Add(text.New("#", head)),
		col.New(5).Add(text.New(t("product"), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
		col.New(2).Add(text.New(t("quantity"), head)),
		col.New(2).Add(text.New(t("unit_price"), head)),
		col.New(2).Add(text.New(t("line_total"), head)),
	)
	m.AddRow(2, line.NewCol(12))
	cell := props.Text{Size: 9, Align: align.Center}
	currency := " " + t("currency")
	for i, l := range inv.Lines {
		m.AddRow(7,
			col.New(1).Add(text.New(strconv.Itoa(i+1), cell)),
			col.New(5).Add(text.New(l.Name, props.Text{Size: 9, Align: align.Left})),
			col.New(2).Add(text.New(l.Quantity, cell)),
			col.New(2).Add(text.New(l.Price+currency, cell)),
			col.New(2).Add(text.New(l.Total+currency, cell)),
		)
	}
	m.AddRow(2, line.NewCol(12))
	m.AddRow(7,
		col.New(10).Add(text.New(t("subtotal"), props.Text{Size: 9, Align: align.Right})),
		col.New(2).Add(text.New(inv.Subtotal+currency, cell)),
	)
	m.AddRow(8,
		col.New(10).Add(text.New(t("grand_total"), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(inv.Total+currency, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center})),
	)
}

func addPDFFooter(m core.Maroto, s models.Settings, inv invoiceView, t func(string) string) {
	if inv.Notes != "" {
		m.AddRow(14,
			col.New(12).Add(
				text.New(t("notes"), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left, Top: 3}),
				text.New(inv.Notes, props.Text{Size: 9, Align: align.Left, Top: 8}),
			),
		)
	}
	m.AddRow(20,
		col.New(6).Add(text.New(t("receiver_signature"), props.Text{Size: 9, Align: align.Center, Top: 14})),
		col.New(6).Add(text.New(t("manager_signature"), props.Text{Size: 9, Align: align.Center, Top: 14})),
	)
	footer := s.EffectiveDesign().FooterText
	if strings.TrimSpace(footer) == "" {
		footer = t("thank_you") + " " + s.CompanyName
	}
	m.AddRow(10, col.New(12).Add(text.New(footer, props.Text{Size: 9, Align: align.Center, Top: 4})))
	if c := s.ShortContact(); c != "" {
		m.AddRow(6, col.New(12).Add(text.New(t("inquiries")+" "+c, props.Text{Size: 8, Align: align.Center})))
	}
}
