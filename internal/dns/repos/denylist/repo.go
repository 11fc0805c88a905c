package denylist

import (
	"sync"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/utils"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

// DefaultFPRate is the Bloom false-positive target used by the daemon.
const DefaultFPRate = 0.001

// repository applies a bloom -> cache -> store pipeline on reads and swaps a
// fresh snapshot on writes.
type repository struct {
	mu      sync.RWMutex
	store   Store
	cache   DecisionCache
	bloom   BloomFilter
	factory BloomFactory
	fpRate  float64
	// gen counts reloads. A decision read from the store is cached only if
	// no reload happened in between.
	gen uint64
}

// NewRepository constructs a Repository.
// fpRate is the target false-positive rate for the Bloom filter when rebuilding.
func NewRepository(store Store, cache DecisionCache, factory BloomFactory, fpRate float64) Repository {
	return &repository{store: store, cache: cache, factory: factory, fpRate: fpRate}
}

// Decide returns the decision for name. Store errors allow the name.
func (r *repository) Decide(name string) domain.DenyDecision {
	cn := utils.CanonicalName(name)
	if cn == "" {
		return domain.AllowDecision()
	}
	if !r.checkBloom(cn) {
		return domain.AllowDecision()
	}
	d, gen, ok := r.checkCache(cn)
	if ok {
		return d
	}
	dec := r.checkStore(cn)
	r.updateCache(cn, dec, gen)
	return dec
}

// UpdateAll rebuilds the store, then swaps in a matching Bloom filter and
// purges the cache.
func (r *repository) UpdateAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error {
	if err := r.store.RebuildAll(rules, version, updatedUnix); err != nil {
		return err
	}

	bf := r.factory.New(uint64(len(rules)), r.fpRate)
	for _, ru := range rules {
		bf.Add(bloomKey(ru.Kind, ru.Name))
	}

	r.mu.Lock()
	r.bloom = bf
	r.gen++
	r.cache.Purge()
	r.mu.Unlock()
	return nil
}

func (r *repository) Stats() RepoStats {
	return RepoStats{Cache: r.cache.Stats(), Store: r.store.Stats()}
}

func (r *repository) Close() error {
	return r.store.Close()
}

// bloomKey namespaces exact and suffix rules so an exact rule never makes a
// subname look like a suffix candidate.
func bloomKey(kind domain.DenyRuleKind, name string) []byte {
	if kind == domain.DenyRuleSuffix {
		return []byte("s:" + name)
	}
	return []byte("e:" + name)
}

// checkBloom reports whether the store may hold a rule for cn. With no filter
// loaded every name is a candidate.
func (r *repository) checkBloom(cn string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	if bf.MightContain(bloomKey(domain.DenyRuleExact, cn)) {
		return true
	}
	for _, anchor := range utils.SuffixAnchors(cn) {
		if bf.MightContain(bloomKey(domain.DenyRuleSuffix, anchor)) {
			return true
		}
	}
	return false
}

// checkCache returns the cached decision and the generation it was read in.
func (r *repository) checkCache(cn string) (domain.DenyDecision, uint64, bool) {
	r.mu.RLock()
	d, ok := r.cache.Get(cn)
	gen := r.gen
	r.mu.RUnlock()
	return d, gen, ok
}

func (r *repository) checkStore(cn string) domain.DenyDecision {
	rule, ok, err := r.store.GetFirstMatch(cn)
	if err == nil && ok {
		return domain.DenyDecision{Denied: true, MatchedRule: rule.Name, Source: rule.Source, Kind: rule.Kind}
	}
	return domain.AllowDecision()
}

func (r *repository) updateCache(cn string, dec domain.DenyDecision, gen uint64) {
	r.mu.Lock()
	if r.gen == gen {
		r.cache.Put(cn, dec)
	}
	r.mu.Unlock()
}
