package models

import "time"

// Known order statuses. Any other value is accepted and shown as-is.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// DateLayout is the canonical calendar date format of Order.Date.
const DateLayout = "2006-01-02"

// Party is the sender or receiver of an order.
type Party struct {
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address" yaml:"address"`
}

// Product is one invoice line. Total is derived from Quantity and Price and
// recomputed on every write.
type Product struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
	Total    float64 `json:"total" yaml:"total"`
}

// Order is a customer order as persisted under KeyOrders.
type Order struct {
	ID        int64      `json:"id" yaml:"id"`
	Date      string     `json:"date" yaml:"date"`
	Status    string     `json:"status" yaml:"status"`
	Sender    Party      `json:"sender" yaml:"sender"`
	Receiver  Party      `json:"receiver" yaml:"receiver"`
	Products  []Product  `json:"products" yaml:"products"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Subtotal  float64    `json:"subtotal" yaml:"subtotal"`
	Total     float64    `json:"total" yaml:"total"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// IsDelivered reports whether the order reached the delivered status.
func (o Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

// ItemCount sums the quantities of all lines.
func (o Order) ItemCount() float64 {
	var n float64
	for _, p := range o.Products {
		n += p.Quantity
	}
	return n
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (o Order) Clone() Order {
	c := o
	if o.Products != nil {
		c.Products = make([]Product, len(o.Products))
		copy(c.Products, o.Products)
	}
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}
