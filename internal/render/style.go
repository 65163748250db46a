package render

import (
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"slices"

	"github.com/diewo77/go-orders/internal/models"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Style is the resolved presentation of a design. Every value is known to
// be safe for use in CSS and class attributes.
type Style struct {
	HeaderBackground string
	HeaderText       string
	FontSize         string
	FontFamily       string
	FooterText       string
	Watermark        bool
}

// StyleFor resolves d against the defaults. Malformed colors and unknown
// font classes fall back to their default.
func StyleFor(d models.Design) Style {
	d = (&d).WithDefaults()
	s := Style{
		HeaderBackground: models.DefaultHeaderColor,
		HeaderText:       models.DefaultHeaderTextColor,
		FontSize:         models.DefaultFontSize,
		FontFamily:       models.DefaultFontFamily,
		FooterText:       d.FooterText,
		Watermark:        d.ShowWatermark,
	}
	if hexColor.MatchString(d.HeaderColor) {
		s.HeaderBackground = d.HeaderColor
	}
	if hexColor.MatchString(d.HeaderTextColor) {
		s.HeaderText = d.HeaderTextColor
	}
	if slices.Contains(models.FontSizes, d.FontSize) {
		s.FontSize = d.FontSize
	}
	if slices.Contains(models.FontFamilies, d.FontFamily) {
		s.FontFamily = d.FontFamily
	}
	return s
}

// Declarations returns the CSS declarations of the invoice header.
func (s Style) Declarations() map[string]string {
	return map[string]string{
		"background-color": s.HeaderBackground,
		"color":            s.HeaderText,
	}
}

// HeaderCSS is the inline style of the invoice header.
func (s Style) HeaderCSS() template.CSS {
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s;", s.HeaderBackground, s.HeaderText))
}

// BodyClass is the class list applied to each invoice page.
func (s Style) BodyClass() string {
	return s.FontSize + " " + s.FontFamily
}

// WatermarkCSS is a repeating diagonal label drawn behind the invoice.
func WatermarkCSS(label string) template.CSS {
	svg := fmt.Sprintf(`<svg xmlns='http://www.w3.org/2000/svg' width='200' height='200'>`+
		`<text x='100' y='100' font-size='28' font-family='sans-serif' fill='rgba(0,0,0,0.08)' `+
		`text-anchor='middle' transform='rotate(-45 100 100)'>%s</text></svg>`, template.HTMLEscapeString(label))
	return template.CSS(fmt.Sprintf(`background-image: url("data:image/svg+xml;charset=utf-8,%s"); background-repeat: repeat; background-size: 200px 200px;`,
		url.PathEscape(svg)))
}
