package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	useTempDB(t)
	d, err := bootstrap()
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return NewApp(d)
}

func TestApp_RootRedirectsToForm(t *testing.T) {
	app := newTestApp(t)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/orders/new", w.Header().Get("Location"))
}

func TestApp_NewOrderPageUsesConfiguredLanguage(t *testing.T) {
	app := newTestApp(t)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/new", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lang="en" dir="ltr"`)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/new?lang=ar", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dir="rtl"`)
	assert.Contains(t, w.Body.String(), "أوردر جديد")
}

func TestApp_CreateThenPrint(t *testing.T) {
	app := newTestApp(t)
	body := `{"sender":{"name":"Ali","phone":"1","address":"a"},"receiver":{"name":"Mona","phone":"2","address":"b"},"products":[{"name":"A","quantity":2,"price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/print-all", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-count="1"`)
}

func TestApp_Healthz(t *testing.T) {
	app := newTestApp(t)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
