package database

import (
	"time"

	"github.com/pkg/errors"

	"sneakwatch/internal/model"
)

// Items returns the saved Items collection, or an empty slice when the
// stored value is missing or invalid.
func (db Database) Items() []model.Item {
	raw, ok := db.Store.Get(keyItems)
	if !ok {
		return []model.Item{}
	}
	items, err := decodeValidSlice[model.Item](raw)
	if err != nil {
		db.Logger.Debugf("Items: Stored items invalid, err: %v", err)
		return []model.Item{}
	}
	return items
}

// CachedItems returns the cache collection, or an empty slice.
func (db Database) CachedItems() []model.Item {
	raw, ok := db.Store.Get(keyCachedItems)
	if !ok {
		return []model.Item{}
	}
	items, err := decodeValidSlice[model.Item](raw)
	if err != nil {
		db.Logger.Debugf("CachedItems: Stored cache invalid, err: %v", err)
		return []model.Item{}
	}
	return items
}

// ItemByID looks an item up by style code. Saved items take priority;
// a validation failure on the saved collection falls through to the
// cache, it is not an error.
func (db Database) ItemByID(id string) (model.Item, bool) {
	if i, ok := findItem(db.Items(), id); ok {
		return i, true
	}
	return findItem(db.CachedItems(), id)
}

func findItem(items []model.Item, id string) (model.Item, bool) {
	for _, i := range items {
		if i.ID == id {
			return i, true
		}
	}
	return model.Item{}, false
}

// SaveItems replaces the saved Items collection wholesale.
func (db Database) SaveItems(items []model.Item) error {
	return errors.Wrap(db.Store.Set(keyItems, items), "error saving items")
}

// SaveItem upserts item by ID into the saved collection and stamps
// Updated with the current time.
func (db Database) SaveItem(item model.Item) error {
	items := db.Items()
	kept := make([]model.Item, 0, len(items)+1)
	for _, i := range items {
		if i.ID != item.ID {
			kept = append(kept, i)
		}
	}
	item.Updated = time.Now()
	return db.SaveItems(append(kept, item))
}

// SetCache replaces the cache collection wholesale.
func (db Database) SetCache(items []model.Item) error {
	return errors.Wrap(db.Store.Set(keyCachedItems, items), "error saving cached items")
}

// CacheItem upserts item by ID into the cache collection.
func (db Database) CacheItem(item model.Item) error {
	cached := db.CachedItems()
	kept := make([]model.Item, 0, len(cached)+1)
	for _, i := range cached {
		if i.ID != item.ID {
			kept = append(kept, i)
		}
	}
	item.Updated = time.Now()
	return db.SetCache(append(kept, item))
}

// ClearItemCache empties the cache collection.
func (db Database) ClearItemCache() error {
	return db.SetCache([]model.Item{})
}

// UpdateItem routes a freshly fetched item: through SaveItem when the
// item is already saved, otherwise through CacheItem. Lookup failures
// fail toward the less durable cache path.
func (db Database) UpdateItem(item model.Item) error {
	if _, saved := findItem(db.Items(), item.ID); saved {
		db.Logger.Debugf("UpdateItem: Saving Item with ID: %s", item.ID)
		return db.SaveItem(item)
	}
	db.Logger.Debugf("UpdateItem: Caching Item with ID: %s", item.ID)
	return db.CacheItem(item)
}

// UpdateItems merges freshly fetched items into the saved collection:
// the input is de-duplicated by ID (later entries win), saved items
// sharing an ID are fully replaced, all other saved items are kept
// untouched. Every replaced or added item is stamped with the current
// time. A no-op on empty input.
func (db Database) UpdateItems(items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	fresh := dedupItems(items)
	existing := db.Items()

	kept := make([]model.Item, 0, len(existing)+len(fresh))
	for _, i := range existing {
		if _, replaced := findItem(fresh, i.ID); !replaced {
			kept = append(kept, i)
		}
	}
	now := time.Now()
	for _, i := range fresh {
		i.Updated = now
		kept = append(kept, i)
	}
	if len(kept) == 0 {
		return nil
	}
	return db.SaveItems(kept)
}

// dedupItems keeps one entry per ID, later entries winning ties.
func dedupItems(items []model.Item) []model.Item {
	byID := make(map[string]int, len(items))
	out := make([]model.Item, 0, len(items))
	for _, i := range items {
		if at, ok := byID[i.ID]; ok {
			out[at] = i
			continue
		}
		byID[i.ID] = len(out)
		out = append(out, i)
	}
	return out
}

func (db Database) deleteItemWithID(id string) error {
	items := db.Items()
	kept := make([]model.Item, 0, len(items))
	for _, i := range items {
		if i.ID != id {
			kept = append(kept, i)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return db.SaveItems(kept)
}
