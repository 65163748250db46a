package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-orders/internal/middleware"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/printing"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
	"github.com/diewo77/go-orders/internal/storage"
	"github.com/diewo77/go-orders/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	handler  http.Handler
	orders   *services.OrderRepository
	settings *services.SettingsStore
	jobs     *printing.Jobs
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	view.ResetForTests()
	view.SetBaseDir("../../templates")
	t.Cleanup(view.ResetForTests)

	store := storage.NewGormStore(setupTestDB(t), 0)
	orders, err := services.NewOrderRepository(store, nil)
	require.NoError(t, err)
	settings := services.NewSettingsStore(store)
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	renderer.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	jobs := printing.NewJobs(time.Minute)

	oh := NewOrderHandler(orders, settings, renderer, jobs)
	sh := NewSettingsHandler(settings, renderer)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", oh.List)
	mux.HandleFunc("GET /orders/new", oh.New)
	mux.HandleFunc("POST /orders", oh.Create)
	mux.HandleFunc("POST /orders/preview", oh.Preview)
	mux.HandleFunc("POST /orders/print", oh.PrintDraft)
	mux.HandleFunc("GET /orders/print-all", oh.PrintAll)
	mux.HandleFunc("GET /orders/{id}", oh.Show)
	mux.HandleFunc("GET /orders/{id}/edit", oh.Edit)
	mux.HandleFunc("POST /orders/{id}", oh.Update)
	mux.HandleFunc("POST /orders/{id}/delete", oh.Delete)
	mux.HandleFunc("POST /orders/{id}/status", oh.SetStatus)
	mux.HandleFunc("GET /orders/{id}/print", oh.Print)
	mux.HandleFunc("GET /orders/{id}/pdf", oh.PDF)
	mux.HandleFunc("GET /print/{id}", jobs.Serve)
	mux.HandleFunc("GET /settings", sh.Edit)
	mux.HandleFunc("POST /settings", sh.Update)
	mux.HandleFunc("GET /settings/preview", sh.Preview)
	mux.HandleFunc("POST /settings/preview", sh.Preview)

	return &testEnv{
		handler:  middleware.Prefs("ar")(mux),
		orders:   orders,
		settings: settings,
		jobs:     jobs,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

const validOrderJSON = `{
	"date": "2024-03-01",
	"sender": {"name": "Ali", "phone": "0100", "address": "Cairo"},
	"receiver": {"name": "Mona", "phone": "0111", "address": "Giza"},
	"products": [{"name": "A", "quantity": 2, "price": 10}, {"name": "B", "quantity": 1, "price": 5}]
}`

func validForm() url.Values {
	return url.Values{
		"date":             {"2024-03-01"},
		"status":           {"pending"},
		"sender_name":      {"Ali"},
		"sender_phone":     {"0100"},
		"sender_address":   {"Cairo"},
		"receiver_name":    {"Mona"},
		"receiver_phone":   {"0111"},
		"receiver_address": {"Giza"},
		"product_name":     {"A", "", "B"},
		"product_quantity": {"2", "", "1"},
		"product_price":    {"10", "", "5"},
	}
}

func createOrder(t *testing.T, e *testEnv) int64 {
	t.Helper()
	w := e.do(jsonRequest(http.MethodPost, "/orders", validOrderJSON))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID    int64        `json:"id"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestOrderCreateAndList_JSON(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(jsonRequest(http.MethodPost, "/orders", validOrderJSON))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID    int64        `json:"id"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, 25.0, created.Order.Subtotal)
	assert.Equal(t, 25.0, created.Order.Total)
	assert.Equal(t, models.StatusPending, created.Order.Status)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "application/json")
	w = e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []models.Order `json:"items"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Items[0].ID)
}

func TestOrderCreate_ValidationJSON(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(jsonRequest(http.MethodPost, "/orders", `{"sender":{"name":"a","phone":"b","address":"c"},"receiver":{"name":"d","phone":"e","address":"f"},"products":[]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "products_required")

	w = e.do(jsonRequest(http.MethodPost, "/orders", `{"products":[{"name":"A","quantity":1,"price":1}],"sender":{"name":"  "}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fields_required")

	w = e.do(jsonRequest(http.MethodPost, "/orders", `{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_json")

	orders, err := e.orders.List()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderCreate_FormRedirectsWithFlash(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(formRequest("/orders", validForm()))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/orders", w.Header().Get("Location"))

	orders, err := e.orders.List()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Products, 2, "blank product rows are skipped")
	assert.Equal(t, 25.0, orders[0].Total)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "تم حفظ الأوردر بنجاح")
	assert.Contains(t, body, "Ali")
	assert.Contains(t, body, "25.00")
}

func TestOrderCreate_FormNonFiniteAmounts(t *testing.T) {
	e := newTestEnv(t)
	form := validForm()
	form["product_name"] = append(form["product_name"], "C", "D")
	form["product_quantity"] = append(form["product_quantity"], "NaN", "1")
	form["product_price"] = append(form["product_price"], "5", "-Inf")
	w := e.do(formRequest("/orders", form))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	orders, err := e.orders.List()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Products, 4)
	assert.Zero(t, orders[0].Products[2].Quantity)
	assert.Zero(t, orders[0].Products[3].Price)
	assert.Equal(t, 25.0, orders[0].Total)
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{
		"2.5":   2.5,
		" 3 ":   3,
		"":      0,
		"abc":   0,
		"NaN":   0,
		"Inf":   0,
		"-Inf":  0,
		"1e400": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseAmount(in), in)
	}
}

func TestOrderCreate_FormInvalidRerenders(t *testing.T) {
	e := newTestEnv(t)
	form := validForm()
	form.Set("receiver_name", "")
	w := e.do(formRequest("/orders", form))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "الرجاء ملء جميع الحقول المطلوبة")
	assert.Contains(t, body, `value="Ali"`)
	assert.Contains(t, body, "border-red-500")
}

func TestOrderList_EmptyAndSorted(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/orders?lang=en", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No orders yet")

	createOrder(t, e)
	_, err := e.orders.Create(models.Order{
		Date:     "2024-01-01",
		Sender:   models.Party{Name: "Zed", Phone: "1", Address: "x"},
		Receiver: models.Party{Name: "Amr", Phone: "2", Address: "y"},
		Products: []models.Product{{Name: "C", Quantity: 1, Price: 100}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders?sort=total&dir=asc", nil)
	req.Header.Set("Accept", "application/json")
	w = e.do(req)
	var list struct {
		Items []models.Order `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, 25.0, list.Items[0].Total)
	assert.Equal(t, 100.0, list.Items[1].Total)
}

func TestOrderShowEditUpdate(t *testing.T) {
	e := newTestEnv(t)
	id := createOrder(t, e)
	path := "/orders/" + strconv.FormatInt(id, 10)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	w := e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Ali", got.Sender.Name)

	w = e.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invoice-page")

	w = e.do(httptest.NewRequest(http.MethodGet, path+"/edit", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="`+path+`"`)

	form := validForm()
	form.Set("receiver_name", "Sara")
	w = e.do(formRequest(path, form))
	require.Equal(t, http.StatusSeeOther, w.Code)

	updated, err := e.orders.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Sara", updated.Receiver.Name)
	assert.Equal(t, id, updated.ID)
	assert.NotNil(t, updated.UpdatedAt)
	orders, _ := e.orders.List()
	assert.Len(t, orders, 1, "edit replaces in place")
}

func TestOrderNotFoundAndBadID(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	req.Header.Set("Accept", "application/json")
	w := e.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "order_not_found")

	w = e.do(httptest.NewRequest(http.MethodGet, "/orders/abc/edit", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(httptest.NewRequest(http.MethodPost, "/orders/42/delete", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotEmpty(t, w.Result().Cookies(), "missing order is reported with a flash")
}

func TestOrderDelete(t *testing.T) {
	e := newTestEnv(t)
	id := createOrder(t, e)
	createOrder(t, e)

	w := e.do(httptest.NewRequest(http.MethodPost, "/orders/"+strconv.FormatInt(id, 10)+"/delete", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	orders, err := e.orders.List()
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	req := httptest.NewRequest(http.MethodPost, "/orders/"+strconv.FormatInt(id, 10)+"/delete", nil)
	req.Header.Set("Accept", "application/json")
	w = e.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	orders, _ = e.orders.List()
	assert.Len(t, orders, 1)
}

func TestOrderSetStatus(t *testing.T) {
	e := newTestEnv(t)
	id := createOrder(t, e)
	path := "/orders/" + strconv.FormatInt(id, 10) + "/status"

	w := e.do(formRequest(path, url.Values{"status": {"delivered"}}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	o, err := e.orders.FindByID(id)
	require.NoError(t, err)
	assert.True(t, o.IsDelivered())

	w = e.do(formRequest(path, url.Values{"status": {"lost"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderPrintCreatesJob(t *testing.T) {
	e := newTestEnv(t)
	id := createOrder(t, e)

	w := e.do(httptest.NewRequest(http.MethodGet, "/orders/"+strconv.FormatInt(id, 10)+"/print", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/print/"))

	w = e.do(httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, strconv.FormatInt(id, 10))
	assert.Contains(t, body, "window.print()")
}

func TestOrderPrintAll(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/orders/print-all", nil)
	req.Header.Set("Accept", "application/json")
	assert.Equal(t, http.StatusNotFound, e.do(req).Code)

	for i := 0; i < 3; i++ {
		createOrder(t, e)
	}
	w := e.do(req)
	require.Equal(t, http.StatusCreated, w.Code)
	var job struct {
		Job   string `json:"job"`
		URL   string `json:"url"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, 3, job.Count)

	doc, ok := e.jobs.Get(job.Job)
	require.True(t, ok)
	html := string(doc.HTML)
	assert.Equal(t, 3, strings.Count(html, `class="invoice-page`))
	assert.Equal(t, 2, strings.Count(html, `class="page-break"`))
	assert.Contains(t, html, `data-count="3"`)
}

func TestOrderPreviewAndDraftPrint(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(formRequest("/orders/preview", validForm()))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "PREVIEW-1714564800000")
	assert.Contains(t, body, "هذه معاينة للفاتورة - لم يتم حفظها بعد")

	w = e.do(formRequest("/orders/print", validForm()))
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = e.do(httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), render.DraftNumber)

	orders, err := e.orders.List()
	require.NoError(t, err)
	assert.Empty(t, orders, "preview and draft print never save")

	form := validForm()
	form.Del("product_name")
	w = e.do(formRequest("/orders/preview", form))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderPDF(t *testing.T) {
	e := newTestEnv(t)
	id := createOrder(t, e)
	w := e.do(httptest.NewRequest(http.MethodGet, "/orders/"+strconv.FormatInt(id, 10)+"/pdf?lang=en", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestSettingsEditAndUpdate(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Accept", "application/json")
	w := e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var s models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, models.DefaultSettings().CompanyName, s.CompanyName)

	w = e.do(httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="#2563eb"`)

	w = e.do(formRequest("/settings", url.Values{
		"company_name":      {"Acme"},
		"company_contact":   {"hello@acme.test"},
		"header_color":      {"#ff0000"},
		"header_text_color": {"#000000"},
		"font_size":         {"text-lg"},
		"font_family":       {"comic-sans"},
		"show_watermark":    {"1"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)

	saved, err := e.settings.Load()
	require.NoError(t, err)
	assert.Equal(t, "Acme", saved.CompanyName)
	require.NotNil(t, saved.Design)
	assert.Equal(t, "#ff0000", saved.Design.HeaderColor)
	assert.Equal(t, "text-lg", saved.Design.FontSize)
	assert.Equal(t, models.DefaultFontFamily, saved.EffectiveDesign().FontFamily)
	assert.True(t, saved.Design.ShowWatermark)
}

func TestSettingsLogoUpload(t *testing.T) {
	e := newTestEnv(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	upload := func(content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("company_name", "Acme"))
		fw, err := mw.CreateFormFile("company_logo_file", "logo.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/settings", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return e.do(req)
	}

	w := upload(png)
	require.Equal(t, http.StatusSeeOther, w.Code)
	saved, err := e.settings.Load()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.CompanyLogo, "data:image/png;base64,"))

	w = upload([]byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	saved, err = e.settings.Load()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.CompanyLogo, "data:image/png;base64,"), "rejected upload keeps the saved logo")
}

func TestSettingsPreviewUsesUnsavedDesign(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(formRequest("/settings/preview", url.Values{
		"company_name": {"Preview Co"},
		"header_color": {"#123456"},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Preview Co")
	assert.Contains(t, body, "#123456")

	saved, err := e.settings.Load()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().CompanyName, saved.CompanyName)

	w = e.do(httptest.NewRequest(http.MethodGet, "/settings/preview", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.DefaultSettings().CompanyName)
}
