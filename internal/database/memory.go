package database

import (
	"context"
	"sort"
	"sync"

	"github.com/benvon/lemonaid/internal/models"
	"github.com/google/uuid"
)

// MemoryItemStore keeps items in process memory. It backs the example routes
// when no DATABASE_URL is configured.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Item
}

// NewMemoryItemStore creates an empty in-memory store.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[uuid.UUID]*models.Item)}
}

func (s *MemoryItemStore) Get(_ context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *MemoryItemStore) List(_ context.Context, limit, offset int) ([]*models.Item, int, error) {
	s.mu.RLock()
	all := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		clone := *item
		all = append(all, &clone)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*models.Item{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *MemoryItemStore) Create(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *item
	s.items[item.ID] = &clone
	return nil
}
