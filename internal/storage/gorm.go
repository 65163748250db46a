package storage

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-orders/internal/models"
	"gorm.io/gorm"
)

// GormStore keeps entries in the kv_entries table.
type GormStore struct {
	db    *gorm.DB
	quota int64
}

// NewGormStore returns a store over db. A quota <= 0 disables the size check.
func NewGormStore(db *gorm.DB, quota int64) *GormStore {
	return &GormStore{db: db, quota: quota}
}

func (s *GormStore) Get(key string) (Entry, error) {
	e, found, err := find(s.db, key)
	if err != nil {
		return Entry{}, fmt.Errorf("get %q: %w", key, err)
	}
	if !found {
		return Entry{}, ErrNotFound
	}
	return toEntry(e), nil
}

func (s *GormStore) Put(key, value string) (int64, error) {
	var rev int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if s.quota > 0 {
			var used int64
			if err := tx.Model(&models.KVEntry{}).
				Where("key <> ?", key).
				Select("COALESCE(SUM(" + byteLength(tx) + "), 0)").
				Scan(&used).Error; err != nil {
				return err
			}
			if exceedsQuota(s.quota, used, value) {
				return ErrQuotaExceeded
			}
		}
		e, found, err := find(tx, key)
		switch {
		case err != nil:
			return err
		case !found:
			e = models.KVEntry{Key: key, Value: value, Revision: 1}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		default:
			e.Value = value
			e.Revision++
			if err := tx.Save(&e).Error; err != nil {
				return err
			}
		}
		rev = e.Revision
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("put %q: %w", key, err)
	}
	return rev, nil
}

func (s *GormStore) Revision(key string) (int64, error) {
	var revs []int64
	if err := s.db.Model(&models.KVEntry{}).Where("key = ?", key).Limit(1).Pluck("revision", &revs).Error; err != nil {
		return 0, fmt.Errorf("revision %q: %w", key, err)
	}
	if len(revs) == 0 {
		return 0, nil
	}
	return revs[0], nil
}

func (s *GormStore) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// find reports a missing key with found == false instead of an error.
func find(db *gorm.DB, key string) (models.KVEntry, bool, error) {
	var rows []models.KVEntry
	if err := db.Where("key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return models.KVEntry{}, false, err
	}
	if len(rows) == 0 {
		return models.KVEntry{}, false, nil
	}
	return rows[0], true, nil
}

// byteLength is the SQL size of value in bytes. LENGTH counts characters
// on both drivers.
func byteLength(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "OCTET_LENGTH(value)"
	}
	return "LENGTH(CAST(value AS BLOB))"
}

func toEntry(e models.KVEntry) Entry {
	return Entry{Key: e.Key, Value: e.Value, Revision: e.Revision, UpdatedAt: e.UpdatedAt}
}
