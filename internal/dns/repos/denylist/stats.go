package denylist

// CacheStats reports lightweight cache metrics.
// All fields are best-effort snapshots and may be updated concurrently.
type CacheStats struct {
	Capacity  int    // configured capacity (0 for disabled cache)
	Size      int    // current number of entries
	Hits      uint64 // total cache hits since construction
	Misses    uint64 // total cache misses since construction
	Evictions uint64 // total evictions since construction
}

// StoreStats reports the store's snapshot metadata and key counts.
type StoreStats struct {
	Version     uint64 // snapshot version (0 if unknown)
	UpdatedUnix int64  // last updated unix time (0 if unknown)
	ExactKeys   uint64
	SuffixKeys  uint64
}

// RepoStats combines the cache and store views.
type RepoStats struct {
	Cache CacheStats
	Store StoreStats
}
