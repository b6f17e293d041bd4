package analytics

import (
	"fmt"
	"sync"
	"time"

	"CoinPulse/internal/services/forecast"
)

// Train policies for concurrent misses on the same model key.
const (
	TrainPolicySingleflight = "singleflight"
	TrainPolicyConcurrent   = "concurrent"
)

// ModelEntry is one trained forecaster with its evaluation and identity.
type ModelEntry struct {
	Model      *forecast.Model
	Metrics    forecast.Metrics
	VersionKey string
	TrainedAt  time.Time
}

// ModelKey builds the cache key for a (symbol, lookback, epochs) tuple.
func ModelKey(symbol string, lookback, epochs int) string {
	return fmt.Sprintf("%s|%d|%d", symbol, lookback, epochs)
}

// ModelCache holds trained models for the process lifetime. Entries never
// expire: a model for (symbol, lookback, epochs) stays valid until restart.
//
// Under the singleflight policy concurrent misses on one key block on a
// per-key lock so at most one training runs; under the concurrent policy
// redundant trainings may run and the last writer wins the slot. Both keep
// every stored entry internally consistent.
type ModelCache struct {
	mu     sync.RWMutex
	m      map[string]*ModelEntry
	policy string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewModelCache builds a cache with the given train policy. Unknown policies
// fall back to singleflight.
func NewModelCache(policy string) *ModelCache {
	if policy != TrainPolicyConcurrent {
		policy = TrainPolicySingleflight
	}
	return &ModelCache{
		m:      make(map[string]*ModelEntry),
		policy: policy,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Policy returns the active train policy.
func (c *ModelCache) Policy() string { return c.policy }

// Get returns the cached entry for key, if any.
func (c *ModelCache) Get(key string) (*ModelEntry, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	return e, ok
}

func (c *ModelCache) set(key string, e *ModelEntry) {
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
}

// GetOrTrain returns the cached entry for key or trains a new one. The bool
// reports whether the entry came from the cache.
func (c *ModelCache) GetOrTrain(key string, train func() (*ModelEntry, error)) (*ModelEntry, bool, error) {
	if e, ok := c.Get(key); ok {
		return e, true, nil
	}

	if c.policy == TrainPolicyConcurrent {
		e, err := train()
		if err != nil {
			return nil, false, err
		}
		c.set(key, e)
		return e, false, nil
	}

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// another caller may have trained while we waited
	if e, ok := c.Get(key); ok {
		return e, true, nil
	}
	e, err := train()
	if err != nil {
		return nil, false, err
	}
	c.set(key, e)
	return e, false, nil
}

// Len returns the number of cached models.
func (c *ModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *ModelCache) keyLock(key string) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	if l, ok := c.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[key] = l
	return l
}
