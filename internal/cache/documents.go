package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DocumentCache provides disk-based caching for fetched catalog documents
// (WMTS capabilities XML). Documents are keyed by their source URL and
// persist across app restarts; entries expire after a TTL and the oldest
// entries are evicted when the cache exceeds its size cap.
type DocumentCache struct {
	baseDir   string
	maxSize   int64 // Maximum cache size in bytes
	ttl       time.Duration
	mu        sync.RWMutex
	index     map[string]*DocumentEntry
	currSize  int64
	evictChan chan struct{}
}

// DocumentEntry records one cached document in the metadata index
type DocumentEntry struct {
	Key        string    `json:"key"` // source URL
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	AccessTime time.Time `json:"accessTime"`
	CreateTime time.Time `json:"createTime"`
}

// NewDocumentCache creates a document cache rooted at baseDir
func NewDocumentCache(baseDir string, maxSizeMB, ttlDays int) (*DocumentCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &DocumentCache{
		baseDir:   baseDir,
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		ttl:       time.Duration(ttlDays) * 24 * time.Hour,
		index:     make(map[string]*DocumentEntry),
		evictChan: make(chan struct{}, 1),
	}

	// a missing or corrupt index just means an empty cache
	c.loadIndex()

	go c.evictionWorker()

	return c, nil
}

// Get retrieves a cached document by its source URL
func (c *DocumentCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.index[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.CreateTime) > c.ttl {
		c.evict(key)
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(c.baseDir, entry.FileName))
	if err != nil {
		// file missing on disk, drop the index entry
		c.evict(key)
		return nil, false
	}

	c.mu.Lock()
	entry.AccessTime = time.Now()
	c.mu.Unlock()

	go c.saveIndex()

	return data, true
}

// Set stores a document under its source URL
func (c *DocumentCache) Set(key string, data []byte) error {
	fileName := hashKey(key) + ".xml"
	filePath := filepath.Join(c.baseDir, fileName)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	entry := &DocumentEntry{
		Key:        key,
		FileName:   fileName,
		Size:       int64(len(data)),
		AccessTime: now,
		CreateTime: now,
	}

	c.mu.Lock()
	if old, exists := c.index[key]; exists {
		c.currSize -= old.Size
	}
	c.index[key] = entry
	c.currSize += entry.Size
	over := c.currSize > c.maxSize
	c.mu.Unlock()

	if over {
		select {
		case c.evictChan <- struct{}{}:
		default:
		}
	}

	go c.saveIndex()

	return nil
}

// evict removes one document from disk and the index
func (c *DocumentCache) evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.index[key]
	if !exists {
		return
	}
	os.Remove(filepath.Join(c.baseDir, entry.FileName))
	delete(c.index, key)
	c.currSize -= entry.Size
}

// evictionWorker runs periodic cache maintenance
func (c *DocumentCache) evictionWorker() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.evictChan:
			c.evictOldest()
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

// evictOldest removes least recently used documents when the cache is full.
// Target size is 80% of max to avoid thrashing.
func (c *DocumentCache) evictOldest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currSize <= c.maxSize {
		return
	}
	targetSize := c.maxSize * 8 / 10

	entries := make([]*DocumentEntry, 0, len(c.index))
	for _, e := range c.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AccessTime.Before(entries[j].AccessTime)
	})

	for _, e := range entries {
		if c.currSize <= targetSize {
			break
		}
		os.Remove(filepath.Join(c.baseDir, e.FileName))
		delete(c.index, e.Key)
		c.currSize -= e.Size
	}

	c.saveIndexLocked()
}

// evictExpired removes documents that exceed the TTL
func (c *DocumentCache) evictExpired() {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.index {
		if now.Sub(e.CreateTime) > c.ttl {
			os.Remove(filepath.Join(c.baseDir, e.FileName))
			delete(c.index, key)
			c.currSize -= e.Size
		}
	}

	c.saveIndexLocked()
}

func (c *DocumentCache) indexPath() string {
	return filepath.Join(c.baseDir, "cache_index.json")
}

// loadIndex restores the metadata index from disk
func (c *DocumentCache) loadIndex() {
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		return
	}

	var entries []*DocumentEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(c.baseDir, e.FileName)); err != nil {
			continue
		}
		c.index[e.Key] = e
		c.currSize += e.Size
	}
}

// saveIndex persists the metadata index. The write lock serializes
// concurrent flushes (Get and Set both flush asynchronously) so two
// goroutines can never interleave writes to the index file.
func (c *DocumentCache) saveIndex() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveIndexLocked()
}

func (c *DocumentCache) saveIndexLocked() {
	entries := make([]*DocumentEntry, 0, len(c.index))
	for _, e := range c.index {
		entries = append(entries, e)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	// write-then-rename so a crash mid-flush never leaves a torn index
	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return
	}
	os.Rename(tmp, c.indexPath())
}

// hashKey derives a filesystem-safe name from a cache key
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
