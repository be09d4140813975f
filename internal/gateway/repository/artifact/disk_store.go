package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiskStore writes pages under root/<restaurantID>/<path>. Content types are
// derived from the file extension on read.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: strings.TrimSpace(root)}
}

func (s *DiskStore) Put(_ context.Context, restaurantID, path string, content []byte, _ string) error {
	full, err := s.pathFor(restaurantID, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0o644)
}

func (s *DiskStore) Get(_ context.Context, restaurantID, path string) (Object, error) {
	full, err := s.pathFor(restaurantID, path)
	if err != nil {
		return Object{}, err
	}
	raw, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, err
	}
	ct := mime.TypeByExtension(filepath.Ext(full))
	if ct == "" {
		ct = defaultContentType
	}
	return Object{Content: raw, ContentType: ct}, nil
}

func (s *DiskStore) GetURL(context.Context, string, string) (string, error) { return "", nil }

func (s *DiskStore) List(_ context.Context, restaurantID string) ([]string, error) {
	if s == nil || s.root == "" {
		return nil, fmt.Errorf("root is required")
	}
	id := strings.TrimSpace(restaurantID)
	if id == "" || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid restaurant_id: %q", restaurantID)
	}
	base := filepath.Join(s.root, id)
	paths := make([]string, 0, 8)
	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, walkErr
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *DiskStore) pathFor(restaurantID, path string) (string, error) {
	if s == nil || s.root == "" {
		return "", fmt.Errorf("root is required")
	}
	id, p, err := clean(restaurantID, path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) || strings.Contains(id, `\`) {
		return "", fmt.Errorf("invalid path: %s", path)
	}
	return filepath.Join(s.root, id, filepath.FromSlash(p)), nil
}
