package models

import "strings"

// Design defaults applied to any field left empty.
const (
	DefaultHeaderColor     = "#2563eb"
	DefaultHeaderTextColor = "#ffffff"
	DefaultFontSize        = "text-base"
	DefaultFontFamily      = "font-sans"
)

// Allowed font classes for the printed invoice.
var (
	FontSizes    = []string{"text-sm", "text-base", "text-lg", "text-xl"}
	FontFamilies = []string{"font-sans", "font-serif", "font-mono", "font-tajawal"}
)

// Design holds the visual options applied to printed invoices.
// An empty FooterText means the default thank-you line.
type Design struct {
	HeaderColor     string `json:"headerColor" yaml:"headerColor"`
	HeaderTextColor string `json:"headerTextColor" yaml:"headerTextColor"`
	FontSize        string `json:"fontSize" yaml:"fontSize"`
	FontFamily      string `json:"fontFamily" yaml:"fontFamily"`
	FooterText      string `json:"footerText" yaml:"footerText"`
	ShowWatermark   bool   `json:"showWatermark" yaml:"showWatermark"`
}

// Settings is the company profile stored under KeySettings.
type Settings struct {
	CompanyName    string  `json:"companyName" yaml:"companyName"`
	CompanyLogo    string  `json:"companyLogo" yaml:"companyLogo"`
	CompanyContact string  `json:"companyContact" yaml:"companyContact"`
	Design         *Design `json:"design,omitempty" yaml:"design,omitempty"`
}

// LegacySettings is the older record stored under KeyLegacySettings.
type LegacySettings struct {
	CompanyName    string `json:"companyName"`
	CompanyLogo    string `json:"companyLogo"`
	CompanyContact string `json:"companyContact"`
}

// DefaultSettings is returned when nothing has been saved yet.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:    "شركتي",
		CompanyContact: "هاتف: 0123456789\nالبريد الإلكتروني: info@example.com",
	}
}

// DefaultDesign returns the design used when none was saved.
func DefaultDesign() Design {
	return Design{
		HeaderColor:     DefaultHeaderColor,
		HeaderTextColor: DefaultHeaderTextColor,
		FontSize:        DefaultFontSize,
		FontFamily:      DefaultFontFamily,
	}
}

// WithDefaults fills empty fields of d with their defaults.
func (d *Design) WithDefaults() Design {
	out := DefaultDesign()
	if d == nil {
		return out
	}
	if d.HeaderColor != "" {
		out.HeaderColor = d.HeaderColor
	}
	if d.HeaderTextColor != "" {
		out.HeaderTextColor = d.HeaderTextColor
	}
	if d.FontSize != "" {
		out.FontSize = d.FontSize
	}
	if d.FontFamily != "" {
		out.FontFamily = d.FontFamily
	}
	out.FooterText = d.FooterText
	out.ShowWatermark = d.ShowWatermark
	return out
}

// EffectiveDesign returns the saved design merged over the defaults.
func (s Settings) EffectiveDesign() Design {
	return s.Design.WithDefaults()
}

// ContactLines splits the multi-line contact block, dropping blank lines.
func (s Settings) ContactLines() []string {
	var lines []string
	for _, l := range strings.Split(s.CompanyContact, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ShortContact is the first contact line, used in invoice footers.
func (s Settings) ShortContact() string {
	if lines := s.ContactLines(); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// Upgrade lifts a legacy record into the current shape.
func (l LegacySettings) Upgrade() Settings {
	return Settings{
		CompanyName:    l.CompanyName,
		CompanyLogo:    l.CompanyLogo,
		CompanyContact: l.CompanyContact,
	}
}
