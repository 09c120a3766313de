// Package cache stores finished analysis reports keyed by the BLAKE3 hash
// of the submission source. Because the key is derived from content, a hit
// is always valid and no TTL is needed; unchanged submissions in batch
// runs skip re-analysis entirely.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/graderd/lumen/pkg/report"
)

// Cache is a file-backed, content-addressed report cache. A disabled cache
// is valid and misses on every lookup.
type Cache struct {
	dir     string
	enabled bool
}

// New creates a cache rooted at dir.
func New(dir string, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, enabled: true}, nil
}

// HashSource computes the BLAKE3 content key for a submission.
func HashSource(src []byte) string {
	hash := blake3.Sum256(src)
	return hex.EncodeToString(hash[:])
}

// Get retrieves the cached report for a content key.
func (c *Cache) Get(key string) (*report.AnalysisReport, bool) {
	if !c.enabled {
		return nil, false
	}
	data, err := os.ReadFile(c.keyPath(key))
	if err != nil {
		return nil, false
	}
	var rep report.AnalysisReport
	if err := json.Unmarshal(data, &rep); err != nil {
		// Corrupt entry: drop it and miss.
		os.Remove(c.keyPath(key))
		return nil, false
	}
	return &rep, true
}

// Put stores a report under a content key.
func (c *Cache) Put(key string, rep *report.AnalysisReport) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o600)
}

// Invalidate removes one cache entry.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
}

// GetStats walks the cache directory and counts entries.
func (c *Cache) GetStats() (*Stats, error) {
	stats := &Stats{}
	if !c.enabled {
		return stats, nil
	}

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
