package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.json")
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)

	_, ok := s.Get("anything")
	assert.False(t, ok)
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "store.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("key", "value"))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSetGet_RoundTrip(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, s.Set("payload", payload{Name: "jordan", Count: 3}))

	raw, ok := s.Get("payload")
	require.True(t, ok)
	var got payload
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, payload{Name: "jordan", Count: 3}, got)
}

func TestSet_PersistsAcrossReopen(t *testing.T) {
	path := tempStorePath(t)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", "two"))

	reopened, err := Open(path)
	require.NoError(t, err)

	raw, ok := reopened.Get("a")
	require.True(t, ok)
	assert.JSONEq(t, "1", string(raw))

	raw, ok = reopened.Get("b")
	require.True(t, ok)
	assert.JSONEq(t, `"two"`, string(raw))
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	_, ok := s.Get("anything")
	assert.False(t, ok)

	// The store must still be writable after a corrupt start.
	require.NoError(t, s.Set("fresh", true))
	raw, ok := s.Get("fresh")
	require.True(t, ok)
	assert.JSONEq(t, "true", string(raw))
}

func TestOnDidChange_NotifiesWithOldAndNew(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)

	type event struct {
		oldValue json.RawMessage
		newValue json.RawMessage
	}
	events := make(chan event, 4)
	s.OnDidChange("watched", func(oldValue, newValue json.RawMessage) {
		events <- event{oldValue: oldValue, newValue: newValue}
	})

	require.NoError(t, s.Set("watched", 1))
	select {
	case e := <-events:
		assert.Nil(t, e.oldValue)
		assert.JSONEq(t, "1", string(e.newValue))
	case <-time.After(time.Second):
		t.Fatal("no event for first write")
	}

	require.NoError(t, s.Set("watched", 2))
	select {
	case e := <-events:
		assert.JSONEq(t, "1", string(e.oldValue))
		assert.JSONEq(t, "2", string(e.newValue))
	case <-time.After(time.Second):
		t.Fatal("no event for second write")
	}
}

func TestOnDidChange_SkipsUnchangedValue(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)
	require.NoError(t, s.Set("watched", "same"))

	events := make(chan struct{}, 1)
	s.OnDidChange("watched", func(oldValue, newValue json.RawMessage) {
		events <- struct{}{}
	})

	require.NoError(t, s.Set("watched", "same"))
	select {
	case <-events:
		t.Fatal("unexpected event for unchanged value")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestOnDidChange_OtherKeyDoesNotNotify(t *testing.T) {
	s, err := Open(tempStorePath(t))
	require.NoError(t, err)

	events := make(chan struct{}, 1)
	s.OnDidChange("watched", func(oldValue, newValue json.RawMessage) {
		events <- struct{}{}
	})

	require.NoError(t, s.Set("other", 42))
	select {
	case <-events:
		t.Fatal("unexpected event for unrelated key")
	case <-time.After(200 * time.Millisecond):
	}
}
