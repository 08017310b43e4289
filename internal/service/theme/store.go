// Package theme persists per-client light/dark preferences.
package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
)

// ErrNoPreference is returned by Load when nothing was saved for the key.
var ErrNoPreference = errors.New("theme: no stored preference")

// Store loads and saves a theme per client key.
type Store interface {
	Load(ctx context.Context, key string) (render.Theme, error)
	Save(ctx context.Context, key string, t render.Theme) error
}

// PebbleStore keeps preferences in a pebble database under theme:<key>.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) the database at path.
func OpenPebbleStore(path string) (*PebbleStore, error) {
	return openPebble(path, &pebble.Options{})
}

// OpenMemPebbleStore opens a pebble database on an in-memory filesystem.
func OpenMemPebbleStore() (*PebbleStore, error) {
	return openPebble("", &pebble.Options{FS: vfs.NewMem()})
}

func openPebble(path string, opts *pebble.Options) (*PebbleStore, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open theme store %q: %w", path, err)
	}
	return &PebbleStore{db: db}, nil
}

func storeKey(key string) []byte {
	return []byte("theme:" + key)
}

func (s *PebbleStore) Load(_ context.Context, key string) (render.Theme, error) {
	val, closer, err := s.db.Get(storeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", ErrNoPreference
	}
	if err != nil {
		return "", fmt.Errorf("load theme %q: %w", key, err)
	}
	defer closer.Close()
	return render.ParseTheme(string(val)), nil
}

func (s *PebbleStore) Save(_ context.Context, key string, t render.Theme) error {
	if err := s.db.Set(storeKey(key), []byte(t), pebble.Sync); err != nil {
		return fmt.Errorf("save theme %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

// MemoryStore keeps preferences in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]render.Theme
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]render.Theme)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (render.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.themes[key]
	if !ok {
		return "", ErrNoPreference
	}
	return t, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, t render.Theme) error {
	s.mu.Lock()
	s.themes[key] = t
	s.mu.Unlock()
	return nil
}
