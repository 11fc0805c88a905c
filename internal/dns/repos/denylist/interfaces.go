// Package denylist decides whether an ENS name may be resolved. Decisions
// run through a decision cache, a Bloom prefilter and finally a bbolt store.
package denylist

import "github.com/ethlimo/limo-web3-dns/internal/dns/domain"

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds a filter sized for capacity keys at the target
// false-positive rate.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches decisions by canonical name.
type DecisionCache interface {
	Get(name string) (domain.DenyDecision, bool)
	Put(name string, d domain.DenyDecision)
	Len() int
	Purge()
	Stats() CacheStats
}

// Store is the persistent rule index.
//
// GetFirstMatch checks the exact rules, then suffix anchors from the most
// specific to the least. RebuildAll replaces every rule in one transaction.
type Store interface {
	GetFirstMatch(name string) (domain.DenyRule, bool, error)
	RebuildAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error
	Stats() StoreStats
	Close() error
}

// Repository is what the answer provider talks to.
type Repository interface {
	Decide(name string) domain.DenyDecision
	UpdateAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error
	Stats() RepoStats
	Close() error
}
