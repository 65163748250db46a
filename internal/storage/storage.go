// Package storage provides the string key-value substrate orders and
// settings are persisted to. Values are opaque JSON documents; every key
// carries a revision bumped on each write.
package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key was never written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrQuotaExceeded is returned by Put when the write would exceed the
	// configured total size.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// Entry is a stored value with its revision.
type Entry struct {
	Key       string
	Value     string
	Revision  int64
	UpdatedAt time.Time
}

// Store is a persistent string key-value store.
type Store interface {
	Get(key string) (Entry, error)
	// Put replaces the value of key and returns its new revision.
	Put(key, value string) (int64, error)
	// Revision returns 0 for keys that were never written.
	Revision(key string) (int64, error)
	Delete(key string) error
}

func exceedsQuota(quota, used int64, value string) bool {
	return quota > 0 && used+int64(len(value)) > quota
}
