package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Object)}
}

func (s *MemoryStore) Put(_ context.Context, restaurantID, path string, content []byte, contentType string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id, p, err := clean(restaurantID, path)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(id, p)] = Object{Content: append([]byte(nil), content...), ContentType: contentType}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, restaurantID, path string) (Object, error) {
	if s == nil {
		return Object{}, fmt.Errorf("store is nil")
	}
	id, p, err := clean(restaurantID, path)
	if err != nil {
		return Object{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[objectKey(id, p)]
	if !ok {
		return Object{}, ErrNotFound
	}
	obj.Content = append([]byte(nil), obj.Content...)
	return obj, nil
}

func (s *MemoryStore) List(_ context.Context, restaurantID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	id := strings.TrimSpace(restaurantID)
	if id == "" {
		return nil, fmt.Errorf("restaurant_id is required")
	}
	prefix := id + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 8)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetURL returns "" because memory content is only reachable through the
// gateway's own routes.
func (s *MemoryStore) GetURL(context.Context, string, string) (string, error) { return "", nil }
