package database

import (
	"encoding/json"

	"github.com/pkg/errors"

	"sneakwatch/internal/model"
	"sneakwatch/internal/store"
)

// Logical keys in the store. Each holds one JSON value.
const (
	keyItems         = "items"
	keyCachedItems   = "cachedItems"
	keyAlerts        = "alerts"
	keySettings      = "settings"
	keyExchangeRates = "exchangeRates"
	keyOpenedCount   = "openedCount"
	keyIsFirstAlert  = "isFirstAlert"
)

// Database is the coordinator that owns all durable state: items,
// alerts, settings, exchange rates and the item cache. Every read
// validates the stored shape and falls back to a safe default on any
// failure; a storage or validation error never reaches the GUI layer.
type Database struct {
	Store  *store.Store
	Logger logger
}

type logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type validatable interface {
	Validate() error
}

// decodeValid unmarshals and validates a single stored value. Any
// failure is reported as an error, callers treat it as "absent".
func decodeValid[T validatable](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrap(err, "error unmarshalling stored value")
	}
	if err := v.Validate(); err != nil {
		return v, errors.Wrap(err, "stored value failed validation")
	}
	return v, nil
}

// decodeValidSlice unmarshals a stored array and validates every
// element. One invalid element invalidates the whole value.
func decodeValidSlice[T validatable](raw json.RawMessage) ([]T, error) {
	var vs []T
	if err := json.Unmarshal(raw, &vs); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling stored array")
	}
	for _, v := range vs {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrap(err, "stored array element failed validation")
		}
	}
	return vs, nil
}

func decodeSettings(raw json.RawMessage) (model.Settings, error) {
	return decodeValid[model.Settings](model.PatchLegacySettings(raw))
}

// Settings returns the persisted settings, or writes and returns the
// defaults when nothing valid is stored.
func (db Database) Settings() model.Settings {
	if raw, ok := db.Store.Get(keySettings); ok {
		if s, err := decodeSettings(raw); err == nil {
			return s
		} else {
			db.Logger.Debugf("Settings: Stored settings invalid, using defaults, err: %v", err)
		}
	}
	defaults := model.DefaultSettings()
	if err := db.SaveSettings(defaults); err != nil {
		db.Logger.Errorf("Settings: Error persisting default settings, err: %v", err)
	}
	return defaults
}

// SaveSettings replaces the settings wholesale.
func (db Database) SaveSettings(s model.Settings) error {
	return errors.Wrap(db.Store.Set(keySettings, s), "error saving settings")
}

// ListenToSettingsChanges registers cb for settings updates. The
// current persisted settings are replayed once as (nil, current) if
// they validate. Afterwards cb fires on every change where both the
// old and the new value validate; transitions where only one side
// validates are dropped.
func (db Database) ListenToSettingsChanges(cb func(oldSettings *model.Settings, newSettings model.Settings)) {
	db.Store.OnDidChange(keySettings, func(oldRaw, newRaw json.RawMessage) {
		newS, err := decodeSettings(newRaw)
		if err != nil {
			db.Logger.Debugf("ListenToSettingsChanges: New settings invalid, dropping change, err: %v", err)
			return
		}
		oldS, err := decodeSettings(oldRaw)
		if err != nil {
			db.Logger.Debugf("ListenToSettingsChanges: Old settings invalid, dropping change, err: %v", err)
			return
		}
		cb(&oldS, newS)
	})

	if raw, ok := db.Store.Get(keySettings); ok {
		if s, err := decodeSettings(raw); err == nil {
			cb(nil, s)
		} else {
			db.Logger.Debugf("ListenToSettingsChanges: Stored settings invalid, skipping replay, err: %v", err)
		}
	}
}

// ExchangeRates returns the persisted FX snapshot, or the hardcoded
// fallback when nothing valid is stored. Never returns a zero value,
// fee calculation downstream always needs a rate.
func (db Database) ExchangeRates() model.ExchangeRates {
	if raw, ok := db.Store.Get(keyExchangeRates); ok {
		if r, err := decodeValid[model.ExchangeRates](raw); err == nil {
			return r
		} else {
			db.Logger.Debugf("ExchangeRates: Stored rates invalid, using fallback, err: %v", err)
		}
	}
	return model.FallbackExchangeRates()
}

func (db Database) SaveExchangeRates(r model.ExchangeRates) error {
	return errors.Wrap(db.Store.Set(keyExchangeRates, r), "error saving exchange rates")
}

// IncrementOpenedCount bumps and returns the app-open counter.
func (db Database) IncrementOpenedCount() int {
	count := 0
	if raw, ok := db.Store.Get(keyOpenedCount); ok {
		if err := json.Unmarshal(raw, &count); err != nil {
			count = 0
		}
	}
	count++
	if err := db.Store.Set(keyOpenedCount, count); err != nil {
		db.Logger.Errorf("IncrementOpenedCount: Error saving opened count, err: %v", err)
	}
	return count
}

// IsFirstAlert returns true exactly once, then persists false.
func (db Database) IsFirstAlert() bool {
	if raw, ok := db.Store.Get(keyIsFirstAlert); ok {
		var first bool
		if err := json.Unmarshal(raw, &first); err == nil {
			return first
		}
	}
	if err := db.Store.Set(keyIsFirstAlert, false); err != nil {
		db.Logger.Errorf("IsFirstAlert: Error saving first-alert flag, err: %v", err)
	}
	return true
}
