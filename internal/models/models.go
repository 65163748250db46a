package models

import "time"

// Storage keys for the records kept in the key-value table.
const (
	KeyOrders         = "orders"
	KeySettings       = "invoiceSettings"
	KeyLegacySettings = "settings"
)

// KVEntry is one row of the key-value table backing orders and settings.
// Value holds the JSON document; Revision is bumped on every write so
// readers can detect changes made by another process.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Revision  int64     `gorm:"not null;default:0" json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }
