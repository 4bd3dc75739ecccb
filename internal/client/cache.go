// internal/client/cache.go
package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pimstack/pim-backend/internal/models"
)

// Snapshot is the durable mirror of the last successful product list
// fetch. It is always replaced wholesale, never merged.
type Snapshot struct {
	Products []models.Product `json:"products"`
	SavedAt  time.Time        `json:"saved_at"`
}

// FileCache persists snapshots as a JSON file so a client can keep
// browsing the last known data while the server is unreachable.
type FileCache struct {
	path string
	mu   sync.Mutex
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Load() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Save writes atomically via a temp file so a crash mid-write never
// corrupts the previous snapshot.
func (c *FileCache) Save(snapshot *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
