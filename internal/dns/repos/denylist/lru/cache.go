// Package lru caches denylist decisions.
package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist"
)

// decisionCache is an LRU-backed implementation of denylist.DecisionCache.
// It tracks basic metrics: hits, misses, and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.DenyDecision]
	capacity  int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct{}

// New creates a new DecisionCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned that always misses and tracks no metrics.
func New(size int) (denylist.DecisionCache, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}

	dc := &decisionCache{capacity: size}
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(string, domain.DenyDecision) {
		dc.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

func (c *decisionCache) Get(name string) (domain.DenyDecision, bool) {
	if val, ok := c.lru.Get(name); ok {
		c.hits.Add(1)
		return val, true
	}
	c.misses.Add(1)
	return domain.DenyDecision{}, false
}

func (c *decisionCache) Put(name string, d domain.DenyDecision) {
	c.lru.Add(name, d)
}

func (c *decisionCache) Len() int { return c.lru.Len() }

func (c *decisionCache) Purge() { c.lru.Purge() }

func (c *decisionCache) Stats() denylist.CacheStats {
	return denylist.CacheStats{
		Capacity:  c.capacity,
		Size:      c.lru.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (disabledCache) Get(string) (domain.DenyDecision, bool) { return domain.DenyDecision{}, false }
func (disabledCache) Put(string, domain.DenyDecision)        {}
func (disabledCache) Len() int                               { return 0 }
func (disabledCache) Purge()                                 {}
func (disabledCache) Stats() denylist.CacheStats             { return denylist.CacheStats{} }

var _ denylist.DecisionCache = (*decisionCache)(nil)
var _ denylist.DecisionCache = disabledCache{}
