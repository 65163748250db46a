package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/go-orders/httpx"
	"github.com/diewo77/go-orders/internal/models"
)

var errBadID = errors.New("invalid order id")

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// orderFromRequest decodes an order from a JSON body or from the order form.
// Form product lines are parallel product_name/product_quantity/product_price
// values; completely blank lines are skipped.
func orderFromRequest(r *http.Request) (models.Order, error) {
	var o models.Order
	if httpx.IsJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			return models.Order{}, err
		}
		return o, nil
	}
	if err := r.ParseForm(); err != nil {
		return models.Order{}, err
	}
	f := r.PostForm
	o = models.Order{
		Date:     strings.TrimSpace(f.Get("date")),
		Status:   strings.TrimSpace(f.Get("status")),
		Sender:   partyFromForm(f, "sender"),
		Receiver: partyFromForm(f, "receiver"),
		Notes:    strings.TrimSpace(f.Get("notes")),
	}
	names, qtys, prices := f["product_name"], f["product_quantity"], f["product_price"]
	for i := range names {
		name := strings.TrimSpace(names[i])
		qty, price := valueAt(qtys, i), valueAt(prices, i)
		if name == "" && qty == "" && price == "" {
			continue
		}
		o.Products = append(o.Products, models.Product{
			Name:     name,
			Quantity: parseAmount(qty),
			Price:    parseAmount(price),
		})
	}
	return o, nil
}

func partyFromForm(f url.Values, prefix string) models.Party {
	return models.Party{
		Name:    strings.TrimSpace(f.Get(prefix + "_name")),
		Phone:   strings.TrimSpace(f.Get(prefix + "_phone")),
		Address: strings.TrimSpace(f.Get(prefix + "_address")),
	}
}

func valueAt(vals []string, i int) string {
	if i < len(vals) {
		return strings.TrimSpace(vals[i])
	}
	return ""
}

// parseAmount reads a form number; anything unparsable or non-finite
// counts as zero.
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
