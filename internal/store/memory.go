package store

import (
	"context"
	"strings"
	"sync"

	"github.com/catalog-chat/server/internal/catalog"
)

// MemoryStore is an in-process Store, used by tests and ephemeral runs.
type MemoryStore struct {
	mu       sync.RWMutex
	texts    map[string]string
	catalogs map[string]catalog.Catalog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		texts:    map[string]string{},
		catalogs: map[string]catalog.Catalog{},
	}
}

func (s *MemoryStore) ReadText(_ context.Context, key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.texts[key]
	if !ok {
		return def
	}
	return strings.TrimSpace(v)
}

func (s *MemoryStore) WriteText(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[key] = value
	return nil
}

func (s *MemoryStore) ReadCatalog(_ context.Context, key string) catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs[key].Clone()
}

func (s *MemoryStore) WriteCatalog(_ context.Context, key string, c catalog.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[key] = c.Clone()
	return nil
}

var _ Store = (*MemoryStore)(nil)
