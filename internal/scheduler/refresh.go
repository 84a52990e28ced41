package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"sneakwatch/internal/misc"
	"sneakwatch/internal/model"
)

// RunCycle is one full refresh cycle: update prices for every item
// that needs it, then evaluate alerts and fire notifications.
func (s *Scheduler) RunCycle(ctx context.Context, forced bool) {
	if err := s.UpdatePrices(ctx, forced); err != nil {
		s.Logger.Errorf("RunCycle: Error updating prices, err: %v", err)
	}
	s.SendNotifications()
}

// UpdatePrices prunes items no alert references anymore, then fetches
// fresh prices for every remaining item that is forced, has never been
// fetched, or is older than the configured update interval. Fetches
// run concurrently with a random delay each; individual failures keep
// that item stale and never abort the batch.
func (s *Scheduler) UpdatePrices(ctx context.Context, forced bool) error {
	settings := s.DB.Settings()
	alerts := s.DB.Alerts()
	items := s.DB.Items()

	kept := pruneOrphans(items, alerts)
	if len(kept) != len(items) {
		s.Logger.Infof("UpdatePrices: Pruning %d orphaned item(s)", len(items)-len(kept))
		if err := s.DB.SaveItems(kept); err != nil {
			return errors.Wrap(err, "error persisting pruned items")
		}
	}

	interval := time.Duration(settings.UpdateInterval) * time.Minute
	var stale []model.Item
	for _, i := range kept {
		if forced || s.needsRefresh(i, interval) {
			stale = append(stale, i)
		}
	}
	if len(stale) == 0 {
		s.Logger.Debug("UpdatePrices: No items need refreshing")
		return nil
	}
	s.Logger.Infof("UpdatePrices: Refreshing %d of %d item(s)", len(stale), len(kept))

	config := s.apiConfig(settings)
	tasks := make([]func() (model.Item, error), 0, len(stale))
	for _, item := range stale {
		item := item
		tasks = append(tasks, func() (model.Item, error) {
			time.Sleep(s.fetchJitter())
			fetched, err := s.Client.GetItemPrices(ctx, item, config)
			if err != nil {
				s.Logger.Errorf("UpdatePrices: Error fetching prices for Item: %s, ID: %s, err: %v",
					misc.StringLimit(item.Name, 45), item.ID, err)
				return model.Item{}, err
			}
			return fetched, nil
		})
	}

	var refreshed []model.Item
	for _, i := range misc.CollectSuccessful(tasks) {
		if len(i.StorePrices) > 0 {
			refreshed = append(refreshed, i)
		}
	}
	if len(refreshed) == 0 {
		return nil
	}
	return errors.Wrap(s.DB.UpdateItems(refreshed), "error merging refreshed items")
}

// pruneOrphans keeps only items referenced by at least one alert. The
// cache is untouched; this is the single canonical pruning point.
func pruneOrphans(items []model.Item, alerts []model.PriceAlert) []model.Item {
	referenced := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		referenced[a.ItemID] = true
	}
	kept := make([]model.Item, 0, len(items))
	for _, i := range items {
		if referenced[i.ID] {
			kept = append(kept, i)
		}
	}
	return kept
}

func (s *Scheduler) needsRefresh(i model.Item, interval time.Duration) bool {
	return i.Updated.IsZero() || s.clock().Sub(i.Updated) > interval
}

// GetItemDetails is the single-item, user-initiated path: it returns
// the saved or cached item when it is fresh and complete, otherwise
// fetches new prices and routes them through the coordinator.
func (s *Scheduler) GetItemDetails(ctx context.Context, item model.Item, forceRefresh bool) (model.Item, error) {
	settings := s.DB.Settings()
	interval := time.Duration(settings.UpdateInterval) * time.Minute
	if saved, ok := s.DB.ItemByID(item.ID); ok {
		if forceRefresh || s.needsRefresh(saved, interval) || !saved.HasAllStorePrices() {
			return s.fetchAndSave(ctx, saved, settings)
		}
		s.Logger.Debugf("GetItemDetails: Returning saved Item with ID: %s", item.ID)
		return saved, nil
	}
	return s.fetchAndSave(ctx, item, settings)
}

func (s *Scheduler) fetchAndSave(ctx context.Context, item model.Item, settings model.Settings) (model.Item, error) {
	fetched, err := s.Client.GetItemPrices(ctx, item, s.apiConfig(settings))
	if err != nil {
		return model.Item{}, errors.Wrapf(err, "error fetching details for item with ID: %s", item.ID)
	}
	if err := s.DB.UpdateItem(fetched); err != nil {
		s.Logger.Errorf("fetchAndSave: Error persisting Item with ID: %s, err: %v", fetched.ID, err)
	}
	return fetched, nil
}
