package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/models"
)

// Rule failures, checked in this order.
var (
	ErrNoProducts      = errors.New("at least one product line is required")
	ErrMissingFields   = errors.New("sender and receiver details are required")
	ErrInvalidProducts = errors.New("at least one product line must have a name, a positive quantity and a non-negative price")
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first rule an order broke.
type ValidationError struct {
	Err   error
	Code  string // translation code of the user-facing message
	Field string // set for missing fields
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns the translated message shown to the user.
func (e *ValidationError) Message(lang string) string {
	return i18n.T(lang, e.Code)
}

// ValidateOrder applies the order rules and returns the first failure.
func ValidateOrder(o *models.Order) error {
	if len(o.Products) == 0 {
		return &ValidationError{Err: ErrNoProducts, Code: "products_required"}
	}
	if field := firstMissingField(o); field != "" {
		return &ValidationError{Err: ErrMissingFields, Code: "fields_required", Field: field}
	}
	for _, p := range o.Products {
		if !finite(p.Quantity) || !finite(p.Price) {
			return &ValidationError{Err: ErrInvalidProducts, Code: "invalid_products"}
		}
	}
	for _, p := range o.Products {
		if validLine(p) {
			return nil
		}
	}
	return &ValidationError{Err: ErrInvalidProducts, Code: "invalid_products"}
}

// Check reports whether o is valid. The error is only returned when
// reportErrors is set, for callers that surface it to the user.
func Check(o *models.Order, reportErrors bool) (bool, error) {
	err := ValidateOrder(o)
	if err == nil {
		return true, nil
	}
	if reportErrors {
		return false, err
	}
	return false, nil
}

// OrderViolations lists every invalid form field of o, for highlighting.
func OrderViolations(o *models.Order) Violations {
	v := make(Violations)
	for _, f := range partyFields(o) {
		Required(f.name, f.value, v)
	}
	for i, p := range o.Products {
		prefix := fmt.Sprintf("products[%d].", i)
		Required(prefix+"name", p.Name, v)
		PositiveFloat(prefix+"quantity", p.Quantity, v)
		NonNegativeFloat(prefix+"price", p.Price, v)
	}
	return v
}

type field struct{ name, value string }

func partyFields(o *models.Order) []field {
	return []field{
		{"sender.name", o.Sender.Name},
		{"sender.phone", o.Sender.Phone},
		{"sender.address", o.Sender.Address},
		{"receiver.name", o.Receiver.Name},
		{"receiver.phone", o.Receiver.Phone},
		{"receiver.address", o.Receiver.Address},
	}
}

func firstMissingField(o *models.Order) string {
	for _, f := range partyFields(o) {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

func validLine(p models.Product) bool {
	return strings.TrimSpace(p.Name) != "" && p.Quantity > 0 && p.Price >= 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
