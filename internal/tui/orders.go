// Package tui renders orders for the terminal.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/diewo77/go-orders/i18n"
	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/render"
	"github.com/diewo77/go-orders/internal/services"
)

var (
	accent  = lipgloss.Color("#2563EB") // invoice header blue
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	deliveredStyle = cellStyle.Foreground(success)
	pendingStyle   = cellStyle.Foreground(warning)
	dimStyle       = lipgloss.NewStyle().Foreground(dim)
	totalStyle     = lipgloss.NewStyle().Bold(true)
)

const statusCol = 7

// RenderOrders draws the orders table with a totals line below it.
func RenderOrders(orders []models.Order, lang string) string {
	t := func(code string) string { return i18n.T(lang, code) }
	if len(orders) == 0 {
		return dimStyle.Render(t("no_orders")) + "\n"
	}

	rows := make([][]string, 0, len(orders))
	for i, o := range orders {
		status := t("status_pending")
		if o.IsDelivered() {
			status = t("status_delivered")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(o.ID, 10),
			render.FormatDate(o.Date),
			o.Sender.Name,
			o.Receiver.Name,
			strconv.FormatFloat(o.ItemCount(), 'f', -1, 64),
			services.FormatFloat(o.Total),
			status,
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "ID", t("date"), t("sender"), t("receiver"), t("items"), t("amount"), t("status")).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusCol && row < len(orders) && orders[row].IsDelivered():
				return deliveredStyle
			case col == statusCol:
				return pendingStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("%s %d  %s %s %s",
		t("total_orders")+":", len(orders),
		t("total_amount")+":", services.FormatAmount(services.GrandTotal(orders)), t("currency"))))
	b.WriteString("\n")
	return b.String()
}
