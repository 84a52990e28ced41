package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Store is a file-backed key-value store. The whole store is a single
// JSON object on disk, one entry per logical key. Every Set rewrites
// the file through a temp-file rename before returning, so a write is
// never partially visible to a later read or a restart.
//
// Keys are independently atomic; there are no cross-key transactions.
// Multi-key consistency is the caller's job via sequential writes.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
	subs map[string][]func(oldValue, newValue json.RawMessage)
}

// Open loads the store file at path, creating parent directories as
// needed. A missing or unreadable file starts the store empty, the
// coordinator regenerates defaults on first access.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrapf(err, "error creating store directory for: %s", path)
	}
	s := &Store{
		path: path,
		data: map[string]json.RawMessage{},
		subs: map[string][]func(oldValue, newValue json.RawMessage){},
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrapf(err, "error reading store file: %s", path)
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		s.data = map[string]json.RawMessage{}
	}
	return s, nil
}

// Get returns the raw value stored under key, if any.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok
}

// Set marshals value under key and flushes the file before returning.
// Subscribers of the key are invoked asynchronously when the stored
// bytes actually changed.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "error marshalling value for key: %s", key)
	}

	s.mu.Lock()
	oldValue, existed := s.data[key]
	s.data[key] = raw
	if err := s.flushLocked(); err != nil {
		if existed {
			s.data[key] = oldValue
		} else {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return err
	}
	subs := append([]func(oldValue, newValue json.RawMessage){}, s.subs[key]...)
	s.mu.Unlock()

	if !bytes.Equal(oldValue, raw) {
		for _, fn := range subs {
			fn := fn
			go fn(oldValue, raw)
		}
	}
	return nil
}

// OnDidChange registers fn for key. fn receives the previous and the
// new raw value; the previous value is nil on the first write.
func (s *Store) OnDidChange(key string, fn func(oldValue, newValue json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[key] = append(s.subs[key], fn)
}

func (s *Store) flushLocked() error {
	b, err := json.MarshalIndent(s.data, "", "\t")
	if err != nil {
		return errors.Wrap(err, "error marshalling store data")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrapf(err, "error writing store file: %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(err, "error replacing store file: %s", s.path)
	}
	return nil
}
