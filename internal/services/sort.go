package services

import (
	"sort"
	"strings"

	"github.com/diewo77/go-orders/internal/models"
)

// Sort keys accepted by SortOrders. Any other key keeps repository order.
const (
	SortDate     = "date"
	SortTotal    = "total"
	SortSender   = "sender"
	SortReceiver = "receiver"
	SortStatus   = "status"
)

// SortOrders sorts orders in place by key. Ties keep repository order.
func SortOrders(orders []models.Order, key string, desc bool) {
	var less func(a, b *models.Order) bool
	switch key {
	case SortDate:
		less = func(a, b *models.Order) bool { return a.Date < b.Date }
	case SortTotal:
		less = func(a, b *models.Order) bool {
			return ComputeTotals(a.Products).Total.LessThan(ComputeTotals(b.Products).Total)
		}
	case SortSender:
		less = func(a, b *models.Order) bool { return lowerLess(a.Sender.Name, b.Sender.Name) }
	case SortReceiver:
		less = func(a, b *models.Order) bool { return lowerLess(a.Receiver.Name, b.Receiver.Name) }
	case SortStatus:
		less = func(a, b *models.Order) bool { return a.Status < b.Status }
	default:
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if desc {
			return less(&orders[j], &orders[i])
		}
		return less(&orders[i], &orders[j])
	})
}

func lowerLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
