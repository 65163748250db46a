package services

import (
	"math"

	"github.com/diewo77/go-orders/internal/models"
	"github.com/shopspring/decimal"
)

// Totals holds the exact amounts of an order. Rounding happens only when
// an amount is formatted for display.
type Totals struct {
	Lines    []decimal.Decimal
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal returns quantity * price. Non-finite inputs count as zero.
func LineTotal(quantity, price float64) decimal.Decimal {
	return amount(quantity).Mul(amount(price))
}

func amount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ComputeTotals sums the unrounded line totals. Total equals Subtotal.
func ComputeTotals(products []models.Product) Totals {
	t := Totals{Lines: make([]decimal.Decimal, len(products))}
	for i, p := range products {
		t.Lines[i] = LineTotal(p.Quantity, p.Price)
		t.Subtotal = t.Subtotal.Add(t.Lines[i])
	}
	t.Total = t.Subtotal
	return t
}

// ApplyTotals recomputes the derived fields of o from its lines.
func ApplyTotals(o *models.Order) Totals {
	t := ComputeTotals(o.Products)
	for i := range o.Products {
		o.Products[i].Total = t.Lines[i].InexactFloat64()
	}
	o.Subtotal = t.Subtotal.InexactFloat64()
	o.Total = t.Total.InexactFloat64()
	return t
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatFloat renders a stored float amount with two decimals.
func FormatFloat(f float64) string {
	return FormatAmount(amount(f))
}

// GrandTotal sums the stored totals of orders.
func GrandTotal(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(amount(o.Total))
	}
	return sum
}
