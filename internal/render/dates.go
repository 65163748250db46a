package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/go-orders/internal/models"
	"github.com/jinzhu/now"
)

var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
}

var hasYear = regexp.MustCompile(`\d{4}`)

// FormatDate normalizes any parseable date to YYYY-MM-DD. Values that do not
// parse are returned unchanged.
func FormatDate(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	// now.Parse fills missing parts from the current time, so only trust it
	// when a full year is present.
	if hasYear.MatchString(v) {
		if t, err := now.Parse(v); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return s
}
