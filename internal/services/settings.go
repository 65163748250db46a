package services

import (
	"encoding/json"
	"errors"

	"github.com/diewo77/go-orders/internal/models"
	"github.com/diewo77/go-orders/internal/storage"
)

// SettingsStore owns the company settings record.
type SettingsStore struct {
	store storage.Store
}

func NewSettingsStore(store storage.Store) *SettingsStore {
	return &SettingsStore{store: store}
}

// Load returns the saved settings. A record under the legacy key is lifted
// when no current record exists; with neither, the defaults are returned
// without being persisted.
func (s *SettingsStore) Load() (models.Settings, error) {
	var st models.Settings
	found, err := s.read(models.KeySettings, &st)
	if err != nil || found {
		return st, err
	}
	var legacy models.LegacySettings
	found, err = s.read(models.KeyLegacySettings, &legacy)
	if err != nil {
		return models.Settings{}, err
	}
	if found {
		return legacy.Upgrade(), nil
	}
	return models.DefaultSettings(), nil
}

// Save overwrites the whole settings record.
func (s *SettingsStore) Save(st models.Settings) error {
	b, err := json.Marshal(st)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: models.KeySettings, Err: err}
	}
	if _, err := s.store.Put(models.KeySettings, string(b)); err != nil {
		return &PersistenceError{Op: "save", Key: models.KeySettings, Err: err}
	}
	return nil
}

func (s *SettingsStore) read(key string, dst any) (bool, error) {
	e, err := s.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	if err := json.Unmarshal([]byte(e.Value), dst); err != nil {
		return false, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}
