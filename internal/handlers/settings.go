package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/diewo77/go-orders/httpx"
	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/middleware"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
	"github.com/diewo77/go-orders/validation"
	"github.com/diewo77/go-orders/view"
)

const maxLogoBytes = 1 << 20

var errInvalidLogo = errors.New("logo is not an image")

type SettingsHandler struct {
	settings *services.SettingsStore
	renderer *render.Renderer
	now      func() time.Time
}

func NewSettingsHandler(settings *services.SettingsStore, renderer *render.Renderer) *SettingsHandler {
	return &SettingsHandler{settings: settings, renderer: renderer, now: time.Now}
}

func (h *SettingsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Load()
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, s)
		return
	}
	h.renderEdit(w, r, http.StatusOK, s, nil)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, err := settingsFromRequest(r)
	if errors.Is(err, errInvalidLogo) {
		if httpx.IsJSONBody(r) || httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_logo", nil)
			return
		}
		h.renderEdit(w, r, http.StatusBadRequest, s, validation.Violations{"companyLogo": "invalid_logo"})
		return
	}
	if err != nil {
		badRequest(w, r, "invalid_json")
		return
	}
	if err := h.settings.Save(s); err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("settings saved for %q", s.CompanyName)
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSON(w, http.StatusOK, s)
		return
	}
	middleware.Flash(w, r, "settings_saved")
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// Preview renders a sample invoice. GET uses the saved settings, POST the
// submitted ones without saving them.
func (h *SettingsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var (
		s   models.Settings
		err error
	)
	if r.Method == http.MethodPost {
		s, err = settingsFromRequest(r)
		if errors.Is(err, errInvalidLogo) {
			s.CompanyLogo = ""
			err = nil
		}
	} else {
		s, err = h.settings.Load()
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	lang := middleware.LangFrom(r)
	doc, err := h.renderer.Preview(sampleOrder(lang, h.now()), s, lang)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.HTML(w, http.StatusOK, doc.HTML)
}

func (h *SettingsHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, s models.Settings, errs validation.Violations) {
	if errs == nil {
		errs = validation.Violations{}
	}
	msg := ""
	if code, ok := errs["companyLogo"]; ok {
		msg = i18n.T(middleware.LangFrom(r), code)
	}
	if err := view.RenderStatus(w, r, status, "settings/edit.html", map[string]any{
		"Title":        i18n.T(middleware.LangFrom(r), "settings"),
		"Settings":     s,
		"Design":       s.EffectiveDesign(),
		"FontSizes":    models.FontSizes,
		"FontFamilies": models.FontFamilies,
		"Errors":       errs,
		"Error":        msg,
		"Flash":        middleware.PopFlash(w, r),
	}); err != nil {
		log.Printf("render settings/edit.html: %v", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// settingsFromRequest decodes settings from JSON or the settings form.
// An uploaded logo is stored inline as a data URL. On errInvalidLogo the
// rest of the submitted settings are still returned.
func settingsFromRequest(r *http.Request) (models.Settings, error) {
	var s models.Settings
	if httpx.IsJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			return models.Settings{}, err
		}
		return s, nil
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxLogoBytes * 2); err != nil {
			return models.Settings{}, err
		}
	} else if err := r.ParseForm(); err != nil {
		return models.Settings{}, err
	}
	d := models.Design{
		HeaderColor:     strings.TrimSpace(r.FormValue("header_color")),
		HeaderTextColor: strings.TrimSpace(r.FormValue("header_text_color")),
		FontSize:        pick(r.FormValue("font_size"), models.FontSizes),
		FontFamily:      pick(r.FormValue("font_family"), models.FontFamilies),
		FooterText:      strings.TrimSpace(r.FormValue("footer_text")),
		ShowWatermark:   r.FormValue("show_watermark") != "",
	}
	s = models.Settings{
		CompanyName:    strings.TrimSpace(r.FormValue("company_name")),
		CompanyLogo:    strings.TrimSpace(r.FormValue("company_logo")),
		CompanyContact: strings.TrimSpace(r.FormValue("company_contact")),
		Design:         &d,
	}
	if r.FormValue("remove_logo") != "" {
		s.CompanyLogo = ""
	}
	if r.MultipartForm == nil {
		return s, nil
	}
	file, _, err := r.FormFile("company_logo_file")
	if errors.Is(err, http.ErrMissingFile) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	defer file.Close()
	logo, err := dataURL(file)
	if err != nil {
		return s, err
	}
	s.CompanyLogo = logo
	return s, nil
}

func dataURL(f io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(f, maxLogoBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) == 0 || len(b) > maxLogoBytes {
		return "", errInvalidLogo
	}
	ct := http.DetectContentType(b)
	if !strings.HasPrefix(ct, "image/") {
		return "", errInvalidLogo
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// pick keeps v when it is one of the allowed values; empty otherwise so the
// default applies.
func pick(v string, allowed []string) string {
	v = strings.TrimSpace(v)
	if slices.Contains(allowed, v) {
		return v
	}
	return ""
}

func sampleOrder(lang string, now time.Time) models.Order {
	t := func(code string) string { return i18n.T(lang, code) }
	return models.Order{
		Date:     now.Format(models.DateLayout),
		Status:   models.StatusPending,
		Sender:   models.Party{Name: t("sample_sender"), Phone: "0100000000", Address: t("sample_address")},
		Receiver: models.Party{Name: t("sample_receiver"), Phone: "0111111111", Address: t("sample_address")},
		Products: []models.Product{
			{Name: t("sample_product") + " 1", Quantity: 2, Price: 150},
			{Name: t("sample_product") + " 2", Quantity: 1, Price: 75.5},
		},
		Notes: t("preview_notes"),
	}
}
