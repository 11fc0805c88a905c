// Package bloom adapts bits-and-blooms filters to denylist.BloomFilter.
package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist"
)

// factory implements denylist.BloomFactory.
type factory struct{}

// NewFactory returns a BloomFactory that sizes filters from capacity and FP rate.
func NewFactory() denylist.BloomFactory { return factory{} }

// New sizes a filter for capacity keys. Empty lists still get a minimal
// filter, and out-of-range rates fall back to 1%.
func (factory) New(capacity uint64, fpRate float64) denylist.BloomFilter {
	if capacity == 0 {
		capacity = 1
	}
	if !(fpRate > 0 && fpRate < 1) {
		fpRate = 0.01
	}
	return &filter{bf: bitsbloom.NewWithEstimates(uint(capacity), fpRate)}
}
