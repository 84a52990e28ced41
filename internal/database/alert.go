package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sneakwatch/internal/model"
)

// Alerts returns the saved alerts, or an empty slice when the stored
// value is missing or invalid.
func (db Database) Alerts() []model.PriceAlert {
	raw, ok := db.Store.Get(keyAlerts)
	if !ok {
		return []model.PriceAlert{}
	}
	alerts, err := decodeValidSlice[model.PriceAlert](raw)
	if err != nil {
		db.Logger.Debugf("Alerts: Stored alerts invalid, err: %v", err)
		return []model.PriceAlert{}
	}
	return alerts
}

// AlertsWithItems inner-joins alerts to their items. Alerts whose item
// is missing are dropped from the result; pruning the underlying data
// is the refresh cycle's job, the join never mutates anything.
func (db Database) AlertsWithItems() []model.AlertWithItem {
	alerts := db.Alerts()
	items := db.Items()
	pairs := make([]model.AlertWithItem, 0, len(alerts))
	for _, a := range alerts {
		if i, ok := findItem(items, a.ItemID); ok {
			pairs = append(pairs, model.AlertWithItem{Alert: a, Item: i})
		}
	}
	return pairs
}

// SaveAlert appends alert to the alerts collection and upserts its
// item. An empty alert ID is assigned here. The two writes are
// sequential, not transactional; an alert persisted without its item
// is reconciled by the next refresh cycle.
func (db Database) SaveAlert(alert model.PriceAlert, item model.Item) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if err := alert.Validate(); err != nil {
		return errors.Wrap(err, "invalid alert")
	}
	if err := item.Validate(); err != nil {
		return errors.Wrap(err, "invalid item")
	}
	if err := db.Store.Set(keyAlerts, append(db.Alerts(), alert)); err != nil {
		return errors.Wrap(err, "error saving alert")
	}
	return db.SaveItem(item)
}

// DeleteAlert removes alert by ID. When no remaining alert references
// the alert's item, the item is deleted from the saved collection as
// well. The cache is never touched.
func (db Database) DeleteAlert(alert model.PriceAlert) error {
	alerts := db.Alerts()
	kept := make([]model.PriceAlert, 0, len(alerts))
	for _, a := range alerts {
		if a.ID != alert.ID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(alerts) {
		return nil
	}
	if err := db.Store.Set(keyAlerts, kept); err != nil {
		return errors.Wrap(err, "error saving alerts")
	}
	for _, a := range kept {
		if a.ItemID == alert.ItemID {
			return nil
		}
	}
	return db.deleteItemWithID(alert.ItemID)
}

// MarkAlertsNotified stamps lastNotificationSent with the current time
// on every saved alert matching one of the given alerts by ID. Alerts
// that are not found are ignored.
func (db Database) MarkAlertsNotified(alerts []model.PriceAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	notified := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		notified[a.ID] = true
	}
	saved := db.Alerts()
	now := time.Now()
	for i := range saved {
		if notified[saved[i].ID] {
			saved[i].LastNotificationSent = now
		}
	}
	return errors.Wrap(db.Store.Set(keyAlerts, saved), "error saving alerts")
}
