package artifact

import (
	"container/list"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultCacheCapacity bounds the number of encoded payloads kept in memory.
const DefaultCacheCapacity = 100

// Payload is the outcome of loading one artifact. Err is set when the file
// could not be read; callers render a placeholder instead of failing.
type Payload struct {
	Name    string
	DataURI string
	Err     error
}

// OK reports whether the payload was loaded.
func (p Payload) OK() bool {
	return p.Err == nil
}

// CacheStats counts cache activity since the last Reset.
type CacheStats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
	Failures  int `json:"failures"`
}

// Cache loads artifacts from a directory and keeps their base64 data URIs in
// memory, evicting the oldest entry once capacity is reached. Failed reads
// are not cached.
//
// Thread-safety: All methods are safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	dir      string
	capacity int
	order    *list.List
	entries  map[string]*list.Element
	stats    CacheStats
}

type cacheEntry struct {
	name    string
	dataURI string
}

// NewCache returns a cache reading from dir. capacity <= 0 selects
// DefaultCacheCapacity.
func NewCache(dir string, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		dir:      dir,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Load returns the encoded payload for name, reading and encoding it on
// first access.
func (c *Cache) Load(name string) Payload {
	c.mu.Lock()
	if el, ok := c.entries[name]; ok {
		c.stats.Hits++
		uri := el.Value.(*cacheEntry).dataURI
		c.mu.Unlock()
		return Payload{Name: name, DataURI: uri}
	}
	c.stats.Misses++
	c.mu.Unlock()

	uri, err := encodeFile(filepath.Join(c.dir, filepath.Base(name)))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stats.Failures++
		return Payload{Name: name, Err: err}
	}
	if _, ok := c.entries[name]; !ok {
		c.insertLocked(name, uri)
	}
	return Payload{Name: name, DataURI: uri}
}

func (c *Cache) insertLocked(name, uri string) {
	for c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).name)
		c.stats.Evictions++
	}
	c.entries[name] = c.order.PushBack(&cacheEntry{name: name, dataURI: uri})
}

// Len returns the number of cached payloads.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reset drops every cached payload and counter.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
	c.stats = CacheStats{}
}

func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return "data:" + mimeType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func mimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
