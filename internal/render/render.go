// Package render turns orders and company settings into standalone,
// print-ready invoice documents.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrNoOrders is returned when a request carries no order to render.
var ErrNoOrders = errors.New("render: no orders")

// Mode selects the document layout.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBatch
	ModePreview
)

func (m Mode) String() string {
	switch m {
	case ModeBatch:
		return "batch"
	case ModePreview:
		return "preview"
	default:
		return "single"
	}
}

// DraftNumber labels an invoice printed before its order was saved.
const DraftNumber = "NEW"

// Request describes one document. Design, when set, replaces the design
// stored in Settings.
type Request struct {
	Mode      Mode
	Orders    []models.Order
	Settings  models.Settings
	Design    *models.Design
	AutoPrint bool
	Lang      string
}

// Document is a rendered standalone HTML page.
type Document struct {
	Mode  Mode
	Title string
	Count int
	HTML  []byte
}

// Renderer is stateless apart from its parsed templates and clock.
type Renderer struct {
	base *template.Template
	now  func() time.Time
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("invoice.html").
		Funcs(template.FuncMap{
			"t":   func(code string) string { return code },
			"inc": func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse invoice templates: %w", err)
	}
	return &Renderer{base: base, now: time.Now}, nil
}

// SetClock replaces the time source used for preview ids and footers.
func (r *Renderer) SetClock(now func() time.Time) { r.now = now }

// Single renders one saved order. An order without id is printed as a draft.
func (r *Renderer) Single(o models.Order, s models.Settings, lang string, autoPrint bool) (*Document, error) {
	return r.Render(Request{Mode: ModeSingle, Orders: []models.Order{o}, Settings: s, Lang: lang, AutoPrint: autoPrint})
}

// Batch renders every order in the given order, one page each.
func (r *Renderer) Batch(orders []models.Order, s models.Settings, lang string, autoPrint bool) (*Document, error) {
	return r.Render(Request{Mode: ModeBatch, Orders: orders, Settings: s, Lang: lang, AutoPrint: autoPrint})
}

// Preview renders an unsaved order with a draft banner.
func (r *Renderer) Preview(o models.Order, s models.Settings, lang string) (*Document, error) {
	return r.Render(Request{Mode: ModePreview, Orders: []models.Order{o}, Settings: s, Lang: lang})
}

// PreviewID is the synthetic number given to previews.
func PreviewID(t time.Time) string {
	return "PREVIEW-" + strconv.FormatInt(t.UnixMilli(), 10)
}

type companyView struct {
	Name         string
	Logo         template.URL
	ContactLines []string
	ShortContact string
}

type lineView struct {
	Name     string
	Quantity string
	Price    string
	Total    string
}

type invoiceView struct {
	Number      string
	Date        string
	Status      string
	StatusClass string
	Sender      models.Party
	Receiver    models.Party
	Lines       []lineView
	Subtotal    string
	Total       string
	Notes       string
}

type pageView struct {
	Lang         string
	Dir          string
	Title        string
	Mode         string
	Batch        bool
	Preview      bool
	AutoPrint    bool
	Count        int
	Company      companyView
	Style        Style
	HeaderCSS    template.CSS
	WatermarkCSS template.CSS
	Footer       string
	Year         int
	Invoices     []invoiceView
}

// Render builds the document for req. Totals are always recomputed from the
// product lines; stored totals are ignored.
func (r *Renderer) Render(req Request) (*Document, error) {
	if len(req.Orders) == 0 {
		return nil, ErrNoOrders
	}
	lang := req.Lang
	if lang == "" {
		lang = i18n.Default
	}
	t := func(code string) string { return i18n.T(lang, code) }

	orders := req.Orders
	if req.Mode != ModeBatch {
		orders = orders[:1]
	}
	design := req.Settings.Design
	if req.Design != nil {
		design = req.Design
	}
	style := StyleFor(design.WithDefaults())
	now := r.now()

	page := pageView{
		Lang:      lang,
		Dir:       i18n.Dir(lang),
		Mode:      req.Mode.String(),
		Batch:     req.Mode == ModeBatch,
		Preview:   req.Mode == ModePreview,
		AutoPrint: req.AutoPrint,
		Count:     len(orders),
		Company:   companyFor(req.Settings),
		Style:     style,
		HeaderCSS: style.HeaderCSS(),
		Year:      now.Year(),
	}
	if style.Watermark {
		page.WatermarkCSS = WatermarkCSS(t("watermark"))
	}
	page.Footer = style.FooterText
	if strings.TrimSpace(page.Footer) == "" {
		page.Footer = t("thank_you") + " " + req.Settings.CompanyName
	}
	for _, o := range orders {
		page.Invoices = append(page.Invoices, r.invoiceFor(o, req.Mode, now, t))
	}
	if page.Batch {
		page.Title = fmt.Sprintf("%s (%d)", t("orders"), page.Count)
	} else {
		page.Title = t("invoice_title") + " #" + page.Invoices[0].Number
	}

	tpl, err := r.base.Clone()
	if err != nil {
		return nil, err
	}
	tpl.Funcs(template.FuncMap{"t": t})
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "invoice.html", page); err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Mode, err)
	}
	return &Document{Mode: req.Mode, Title: page.Title, Count: page.Count, HTML: buf.Bytes()}, nil
}

func (r *Renderer) invoiceFor(o models.Order, mode Mode, now time.Time, t func(string) string) invoiceView {
	totals := services.ComputeTotals(o.Products)
	v := invoiceView{
		Date:     FormatDate(o.Date),
		Sender:   o.Sender,
		Receiver: o.Receiver,
		Subtotal: services.FormatAmount(totals.Subtotal),
		Total:    services.FormatAmount(totals.Total),
		Notes:    strings.TrimSpace(o.Notes),
	}
	switch {
	case mode == ModePreview:
		v.Number = PreviewID(now)
	case o.ID == 0:
		v.Number = DraftNumber
	default:
		v.Number = strconv.FormatInt(o.ID, 10)
	}
	if v.Date == "" {
		v.Date = now.Format(models.DateLayout)
	}
	status := o.Status
	if mode == ModePreview {
		status = "preview"
	}
	v.Status, v.StatusClass = statusLabel(status, t)
	for i, p := range o.Products {
		v.Lines = append(v.Lines, lineView{
			Name:     p.Name,
			Quantity: strconv.FormatFloat(p.Quantity, 'f', -1, 64),
			Price:    services.FormatFloat(p.Price),
			Total:    services.FormatAmount(totals.Lines[i]),
		})
	}
	return v
}

func statusLabel(status string, t func(string) string) (label, class string) {
	switch status {
	case models.StatusDelivered:
		return t("status_delivered"), "status-delivered"
	case models.StatusPending, "":
		return t("status_pending"), "status-pending"
	case "preview":
		return t("status_preview"), "status-preview"
	default:
		return status, "status-other"
	}
}

func companyFor(s models.Settings) companyView {
	return companyView{
		Name:         s.CompanyName,
		Logo:         logoURL(s.CompanyLogo),
		ContactLines: s.ContactLines(),
		ShortContact: s.ShortContact(),
	}
}

// logoURL accepts inline images and http(s) links; anything else is dropped.
func logoURL(raw string) template.URL {
	v := strings.TrimSpace(raw)
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(v)
	default:
		return ""
	}
}
