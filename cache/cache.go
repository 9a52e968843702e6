// Package cache memoizes simulation runs keyed by a hash of parameters and
// run configuration. Sensitivity sweeps revisit the same point whenever sweep
// ranges overlap or a baseline is shared, and the model is deterministic, so
// a cached result is exact, not approximate.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"math"
	"sync"

	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
)

// Key identifies one simulation run.
type Key struct {
	Params     model.Parameters
	Weeks      int
	BurnIn     int
	Population float64
}

func (k Key) hash() string {
	h := sha256.New()
	data, _ := json.Marshal(k.Params)
	h.Write(data)

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(k.Weeks))
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, uint64(k.BurnIn))
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, math.Float64bits(k.Population))
	h.Write(buf)

	return string(h.Sum(nil))
}

// RunCache caches simulation results with FIFO eviction.
type RunCache struct {
	mu        sync.Mutex
	cache     map[string]*results.Results
	order     []string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewRunCache creates a cache holding at most maxSize runs. When the cache is
// full the oldest entry is evicted. Set maxSize to 0 for unlimited cache.
func NewRunCache(maxSize int) *RunCache {
	return &RunCache{
		cache:   make(map[string]*results.Results),
		maxSize: maxSize,
	}
}

// Get retrieves a cached run for the given key.
// Returns nil if not found.
func (c *RunCache) Get(k Key) *results.Results {
	key := k.hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.cache[key]; ok {
		c.hits++
		return r
	}
	c.misses++
	return nil
}

// Put stores a run in the cache.
func (c *RunCache) Put(k Key, r *results.Results) {
	key := k.hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache[key]; ok {
		c.cache[key] = r
		return
	}

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}

	c.cache[key] = r
	c.order = append(c.order, key)
}

// GetOrCompute retrieves from cache or computes and caches the result.
// Compute errors are returned without caching.
func (c *RunCache) GetOrCompute(k Key, compute func() (*results.Results, error)) (*results.Results, error) {
	if r := c.Get(k); r != nil {
		return r, nil
	}

	r, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(k, r)
	return r, nil
}

// Clear removes all entries from the cache.
func (c *RunCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*results.Results)
	c.order = nil
}

// Size returns the current number of cached entries.
func (c *RunCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats describes cache effectiveness.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *RunCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
