package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store holds rendered pages and assets per restaurant.
type Store interface {
	Put(ctx context.Context, restaurantID, path string, content []byte, contentType string) error
	Get(ctx context.Context, restaurantID, path string) (Object, error)
	GetURL(ctx context.Context, restaurantID, path string) (string, error)
	List(ctx context.Context, restaurantID string) ([]string, error)
}

// Object is stored content with its media type.
type Object struct {
	Content     []byte
	ContentType string
}

var ErrNotFound = errors.New("artifact not found")

const defaultContentType = "application/octet-stream"

func clean(restaurantID, path string) (string, string, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if restaurantID == "" {
		return "", "", fmt.Errorf("restaurant_id is required")
	}
	if strings.Contains(restaurantID, "/") {
		return "", "", fmt.Errorf("restaurant_id must not contain '/'")
	}
	if path == "" {
		return "", "", fmt.Errorf("path is required")
	}
	if strings.Contains(path, "..") {
		return "", "", fmt.Errorf("path must not contain '..'")
	}
	return restaurantID, path, nil
}

func objectKey(restaurantID, path string) string { return restaurantID + "/" + path }
