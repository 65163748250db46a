package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-orders/httpx"
	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/middleware"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/printing"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
	"github.com/diewo77/go-orders/validation"
	"github.com/diewo77/go-orders/view"
)

type OrderHandler struct {
	orders   *services.OrderRepository
	settings *services.SettingsStore
	renderer *render.Renderer
	jobs     *printing.Jobs
	now      func() time.Time
}

func NewOrderHandler(orders *services.OrderRepository, settings *services.SettingsStore, renderer *render.Renderer, jobs *printing.Jobs) *OrderHandler {
	return &OrderHandler{orders: orders, settings: settings, renderer: renderer, jobs: jobs, now: time.Now}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	sortKey := r.URL.Query().Get("sort")
	desc := r.URL.Query().Get("dir") == "desc"
	services.SortOrders(orders, sortKey, desc)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"items": orders,
			"total": len(orders),
		})
		return
	}
	nextDir := "desc"
	if desc {
		nextDir = "asc"
	}
	view.Render(w, r, "orders/index.html", map[string]any{
		"Title":       i18n.T(middleware.LangFrom(r), "orders"),
		"Orders":      orders,
		"Sort":        sortKey,
		"NextDir":     nextDir,
		"TotalAmount": services.FormatAmount(services.GrandTotal(orders)),
		"Flash":       middleware.PopFlash(w, r),
	})
}

func (h *OrderHandler) New(w http.ResponseWriter, r *http.Request) {
	o := models.Order{
		Date:     h.now().Format(models.DateLayout),
		Status:   models.StatusPending,
		Products: []models.Product{{Quantity: 1}},
	}
	h.renderForm(w, r, http.StatusOK, o, "/orders", nil, "")
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	o, err := orderFromRequest(r)
	if err != nil {
		badRequest(w, r, "invalid_json")
		return
	}
	if err := validation.ValidateOrder(&o); err != nil {
		h.invalid(w, r, o, "/orders", err)
		return
	}
	id, err := h.orders.Create(o)
	if err != nil {
		fail(w, r, err)
		return
	}
	log.Printf("order %d created", id)
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		created, err := h.orders.FindByID(id)
		if err != nil {
			fail(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, map[string]any{"id": id, "order": created})
		return
	}
	middleware.Flash(w, r, "order_saved")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// Show returns the order as JSON, or its invoice page.
func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	o, ok := h.find(w, r)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, o)
		return
	}
	h.serveDocument(w, r, func(s models.Settings, lang string) (*render.Document, error) {
		return h.renderer.Single(o, s, lang, false)
	})
}

func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	o, ok := h.find(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, o, "/orders/"+strconv.FormatInt(o.ID, 10), nil, "")
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, r, "invalid_id")
		return
	}
	o, err := orderFromRequest(r)
	if err != nil {
		badRequest(w, r, "invalid_json")
		return
	}
	action := "/orders/" + strconv.FormatInt(id, 10)
	if err := validation.ValidateOrder(&o); err != nil {
		o.ID = id
		h.invalid(w, r, o, action, err)
		return
	}
	updated, err := h.orders.Update(id, o)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	middleware.Flash(w, r, "order_updated")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, r, "invalid_id")
		return
	}
	deleted, err := h.orders.Delete(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !deleted {
		fail(w, r, services.ErrNotFound)
		return
	}
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.Flash(w, r, "order_deleted")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, r, "invalid_id")
		return
	}
	status := r.FormValue("status")
	if status != models.StatusPending && status != models.StatusDelivered {
		badRequest(w, r, "invalid_status")
		return
	}
	o, err := h.orders.SetStatus(id, status)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, o)
		return
	}
	middleware.Flash(w, r, "status_updated")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// Print renders a saved order for printing and sends the browser to the print page.
func (h *OrderHandler) Print(w http.ResponseWriter, r *http.Request) {
	o, ok := h.find(w, r)
	if !ok {
		return
	}
	h.submit(w, r, func(s models.Settings, lang string) (*render.Document, error) {
		return h.renderer.Single(o, s, lang, true)
	})
}

// PrintAll prints every order as one document, one page per order.
func (h *OrderHandler) PrintAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	if len(orders) == 0 {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "no_orders_to_print", nil)
			return
		}
		http.Error(w, i18n.T(middleware.LangFrom(r), "no_orders_to_print"), http.StatusNotFound)
		return
	}
	h.submit(w, r, func(s models.Settings, lang string) (*render.Document, error) {
		return h.renderer.Batch(orders, s, lang, true)
	})
}

// Preview renders the unsaved form as a draft invoice.
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	o, err := orderFromRequest(r)
	if err != nil {
		badRequest(w, r, "invalid_json")
		return
	}
	if err := validation.ValidateOrder(&o); err != nil {
		validationFailed(w, r, err)
		return
	}
	lang := middleware.LangFrom(r)
	if o.Notes == "" {
		o.Notes = i18n.T(lang, "preview_notes")
	}
	h.serveDocument(w, r, func(s models.Settings, lang string) (*render.Document, error) {
		return h.renderer.Preview(o, s, lang)
	})
}

// PrintDraft prints the unsaved form as invoice number NEW.
func (h *OrderHandler) PrintDraft(w http.ResponseWriter, r *http.Request) {
	o, err := orderFromRequest(r)
	if err != nil {
		badRequest(w, r, "invalid_json")
		return
	}
	if err := validation.ValidateOrder(&o); err != nil {
		validationFailed(w, r, err)
		return
	}
	o.ID = 0
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	h.submit(w, r, func(s models.Settings, lang string) (*render.Document, error) {
		return h.renderer.Single(o, s, lang, true)
	})
}

func (h *OrderHandler) PDF(w http.ResponseWriter, r *http.Request) {
	o, ok := h.find(w, r)
	if !ok {
		return
	}
	s, err := h.settings.Load()
	if err != nil {
		fail(w, r, err)
		return
	}
	b, err := h.renderer.PDF(o, s, middleware.LangFrom(r))
	if err != nil {
		log.Printf("pdf order %d: %v", o.ID, err)
		http.Error(w, i18n.T(middleware.LangFrom(r), "render_failed"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+strconv.FormatInt(o.ID, 10)+".pdf")
	_, _ = w.Write(b)
}

type renderFunc func(s models.Settings, lang string) (*render.Document, error)

func (h *OrderHandler) document(r *http.Request, fn renderFunc) (*render.Document, error) {
	s, err := h.settings.Load()
	if err != nil {
		return nil, err
	}
	return fn(s, middleware.LangFrom(r))
}

func (h *OrderHandler) serveDocument(w http.ResponseWriter, r *http.Request, fn renderFunc) {
	doc, err := h.document(r, fn)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.HTML(w, http.StatusOK, doc.HTML)
}

// submit parks the document as a print job. JSON clients get the job URL,
// browsers are redirected to it.
func (h *OrderHandler) submit(w http.ResponseWriter, r *http.Request, fn renderFunc) {
	doc, err := h.document(r, fn)
	if err != nil {
		fail(w, r, err)
		return
	}
	id := h.jobs.Submit(doc)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{"job": id, "url": printing.URL(id), "count": doc.Count})
		return
	}
	http.Redirect(w, r, printing.URL(id), http.StatusSeeOther)
}

func (h *OrderHandler) find(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, r, "invalid_id")
		return models.Order{}, false
	}
	o, err := h.orders.FindByID(id)
	if err != nil {
		fail(w, r, err)
		return models.Order{}, false
	}
	return o, true
}

func (h *OrderHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, o models.Order, action string, errs validation.Violations, msg string) {
	lang := middleware.LangFrom(r)
	title := i18n.T(lang, "new_order")
	if o.ID != 0 {
		title = i18n.T(lang, "edit_order")
	}
	if errs == nil {
		errs = validation.Violations{}
	}
	if len(o.Products) == 0 {
		o.Products = []models.Product{{Quantity: 1}}
	}
	totals := services.ComputeTotals(o.Products)
	if err := view.RenderStatus(w, r, status, "orders/form.html", map[string]any{
		"Title":        title,
		"Action":       action,
		"Editing":      o.ID != 0,
		"Order":        o,
		"BlankProduct": models.Product{Quantity: 1},
		"Subtotal":     services.FormatAmount(totals.Subtotal),
		"Total":        services.FormatAmount(totals.Total),
		"Errors":       errs,
		"Error":        msg,
		"Flash":        middleware.PopFlash(w, r),
	}); err != nil {
		log.Printf("render orders/form.html: %v", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// invalid answers a failed validation: 400 JSON for API clients, the form
// with highlighted fields otherwise.
func (h *OrderHandler) invalid(w http.ResponseWriter, r *http.Request, o models.Order, action string, err error) {
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		validationFailed(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusBadRequest, o, action, validation.OrderViolations(&o), validationMessage(r, err))
}

func validationMessage(r *http.Request, err error) string {
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		return ve.Message(middleware.LangFrom(r))
	}
	return err.Error()
}

func validationFailed(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		badRequest(w, r, "invalid_json")
		return
	}
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSONError(w, http.StatusBadRequest, ve.Code, map[string]string{
			"message": ve.Message(middleware.LangFrom(r)),
			"field":   ve.Field,
		})
		return
	}
	http.Error(w, ve.Message(middleware.LangFrom(r)), http.StatusBadRequest)
}

func badRequest(w http.ResponseWriter, r *http.Request, code string) {
	if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
		httpx.JSONError(w, http.StatusBadRequest, code, nil)
		return
	}
	http.Error(w, i18n.T(middleware.LangFrom(r), code), http.StatusBadRequest)
}

// fail maps repository errors to responses. Browsers asking for a missing
// order are sent back to the list with a flash message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)
	switch {
	case errors.Is(err, services.ErrNotFound):
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		if r.Method == http.MethodGet {
			http.Error(w, i18n.T(lang, "order_not_found"), http.StatusNotFound)
			return
		}
		middleware.Flash(w, r, "order_not_found")
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
	case errors.Is(err, services.ErrPersistence):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "persistence_failed", nil)
			return
		}
		http.Error(w, i18n.T(lang, "persistence_failed"), http.StatusInternalServerError)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
			return
		}
		http.Error(w, i18n.T(lang, "render_failed"), http.StatusInternalServerError)
	}
}
