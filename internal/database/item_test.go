package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakwatch/internal/model"
)

func makeItem(id, name string) model.Item {
	return model.Item{ID: id, Name: name}
}

func TestItems_EmptyWhenMissingOrInvalid(t *testing.T) {
	db := newTestDB(t)
	assert.Empty(t, db.Items())

	require.NoError(t, db.Store.Set(keyItems, "garbage"))
	assert.Empty(t, db.Items())

	// One invalid element invalidates the whole collection.
	require.NoError(t, db.Store.Set(keyItems, []model.Item{
		makeItem("A", "Item A"),
		{ID: "B"},
	}))
	assert.Empty(t, db.Items())
}

func TestSaveItem_UpsertsAndStamps(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveItem(makeItem("A", "Item A")))
	require.NoError(t, db.SaveItem(makeItem("B", "Item B")))
	require.NoError(t, db.SaveItem(makeItem("A", "Item A renamed")))

	items := db.Items()
	require.Len(t, items, 2)
	a, ok := findItem(items, "A")
	require.True(t, ok)
	assert.Equal(t, "Item A renamed", a.Name)
	assert.False(t, a.Updated.IsZero())
}

func TestItemByID_SavedTakesPriorityOverCache(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveItem(makeItem("A", "saved")))
	require.NoError(t, db.CacheItem(makeItem("A", "cached")))
	require.NoError(t, db.CacheItem(makeItem("C", "cache only")))

	got, ok := db.ItemByID("A")
	require.True(t, ok)
	assert.Equal(t, "saved", got.Name)

	got, ok = db.ItemByID("C")
	require.True(t, ok)
	assert.Equal(t, "cache only", got.Name)

	_, ok = db.ItemByID("missing")
	assert.False(t, ok)
}

func TestUpdateItem_RoutesSavedAndCached(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SaveItem(makeItem("A", "Item A")))

	require.NoError(t, db.UpdateItem(makeItem("A", "Item A fresh")))
	require.NoError(t, db.UpdateItem(makeItem("X", "never saved")))

	a, ok := findItem(db.Items(), "A")
	require.True(t, ok)
	assert.Equal(t, "Item A fresh", a.Name)
	_, ok = findItem(db.Items(), "X")
	assert.False(t, ok)

	x, ok := findItem(db.CachedItems(), "X")
	require.True(t, ok)
	assert.Equal(t, "never saved", x.Name)
	_, ok = findItem(db.CachedItems(), "A")
	assert.False(t, ok)
}

func TestUpdateItems_MergesAndStamps(t *testing.T) {
	db := newTestDB(t)

	oldStamp := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	a := makeItem("A", "Item A")
	a.Updated = oldStamp
	b := makeItem("B", "Item B")
	b.Updated = oldStamp
	require.NoError(t, db.SaveItems([]model.Item{a, b}))

	// Duplicate fresh entries for A, the later one wins.
	require.NoError(t, db.UpdateItems([]model.Item{
		makeItem("A", "Item A stale fetch"),
		makeItem("A", "Item A fresh fetch"),
	}))

	items := db.Items()
	require.Len(t, items, 2)

	gotA, ok := findItem(items, "A")
	require.True(t, ok)
	assert.Equal(t, "Item A fresh fetch", gotA.Name)
	assert.True(t, gotA.Updated.After(oldStamp))

	gotB, ok := findItem(items, "B")
	require.True(t, ok)
	assert.Equal(t, "Item B", gotB.Name)
	assert.Equal(t, oldStamp, gotB.Updated)
}

func TestUpdateItems_EmptyInputIsNoop(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SaveItem(makeItem("A", "Item A")))

	require.NoError(t, db.UpdateItems(nil))
	assert.Len(t, db.Items(), 1)
}

func TestClearItemCache(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CacheItem(makeItem("A", "Item A")))
	require.NoError(t, db.SaveItem(makeItem("B", "Item B")))

	require.NoError(t, db.ClearItemCache())
	assert.Empty(t, db.CachedItems())
	assert.Len(t, db.Items(), 1)
}
