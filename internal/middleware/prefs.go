package middleware

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-orders/i18n"
)

const (
	langCookie  = "lang"
	flashCookie = "flash"
)

// Prefs resolves the language (query > cookie > Accept-Language > fallback)
// and stores it in the request context. A query-provided language is kept in
// a cookie for a year.
func Prefs(fallback string) func(http.Handler) http.Handler {
	if !i18n.Supported(fallback) {
		fallback = i18n.Default
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(c.Value) {
				lang = c.Value
			}
			if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     langCookie,
					Value:    lang,
					Path:     "/",
					MaxAge:   86400 * 365,
					HttpOnly: true,
				})
			}
			if lang == "" && r.Header.Get("Accept-Language") != "" {
				lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = fallback
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}

// LangFrom returns the language resolved by Prefs.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// Flash sets a translated one-shot message cookie.
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(LangFrom(r), code)
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: url.QueryEscape(msg), Path: "/"})
}

// PopFlash returns the pending flash message and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
