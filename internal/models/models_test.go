package models

import (
	"testing"
	"time"
)

func TestOrder_IsDelivered(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"pending", StatusPending, false},
		{"delivered", StatusDelivered, true},
		{"free text", "shipped", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.status}
			if got := o.IsDelivered(); got != tt.want {
				t.Errorf("IsDelivered() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrder_ItemCount(t *testing.T) {
	o := &Order{Products: []Product{
		{Name: "A", Quantity: 2, Price: 10},
		{Name: "B", Quantity: 1.5, Price: 4},
	}}
	if got := o.ItemCount(); got != 3.5 {
		t.Errorf("ItemCount() = %f, want 3.5", got)
	}
}

func TestOrder_CloneIsDeep(t *testing.T) {
	ts := time.Now()
	o := Order{ID: 1, Products: []Product{{Name: "A", Quantity: 1}}, UpdatedAt: &ts}
	c := o.Clone()
	c.Products[0].Name = "changed"
	*c.UpdatedAt = ts.Add(time.Hour)

	if o.Products[0].Name != "A" {
		t.Errorf("clone shares products slice with original")
	}
	if !o.UpdatedAt.Equal(ts) {
		t.Errorf("clone shares UpdatedAt with original")
	}
}

func TestSettings_EffectiveDesign(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     Design
	}{
		{
			name:     "no design saved",
			settings: Settings{},
			want:     DefaultDesign(),
		},
		{
			name:     "partial design",
			settings: Settings{Design: &Design{HeaderColor: "#000000", ShowWatermark: true}},
			want: Design{
				HeaderColor:     "#000000",
				HeaderTextColor: DefaultHeaderTextColor,
				FontSize:        DefaultFontSize,
				FontFamily:      DefaultFontFamily,
				ShowWatermark:   true,
			},
		},
		{
			name: "full design",
			settings: Settings{Design: &Design{
				HeaderColor: "#111111", HeaderTextColor: "#222222",
				FontSize: "text-lg", FontFamily: "font-serif", FooterText: "bye",
			}},
			want: Design{
				HeaderColor: "#111111", HeaderTextColor: "#222222",
				FontSize: "text-lg", FontFamily: "font-serif", FooterText: "bye",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.EffectiveDesign(); got != tt.want {
				t.Errorf("EffectiveDesign() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSettings_ShortContact(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		want    string
	}{
		{"multi line", "Phone: 1\nMail: a@b", "Phone: 1"},
		{"leading blank line", "\n  \nPhone: 2", "Phone: 2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{CompanyContact: tt.contact}
			if got := s.ShortContact(); got != tt.want {
				t.Errorf("ShortContact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLegacySettings_Upgrade(t *testing.T) {
	l := LegacySettings{CompanyName: "Acme", CompanyLogo: "logo", CompanyContact: "c"}
	s := l.Upgrade()
	if s.CompanyName != "Acme" || s.CompanyLogo != "logo" || s.CompanyContact != "c" {
		t.Errorf("Upgrade() = %+v", s)
	}
	if s.Design != nil {
		t.Errorf("Upgrade() should not invent a design")
	}
}
