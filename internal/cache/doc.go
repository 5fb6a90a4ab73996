// Package cache provides a byte-bounded LRU cache for immutable blobs.
//
// Source texts fetched from remote blob stores are read once per search
// but often reused across searches of a corpus; the LRU keeps the most
// recently used ones in memory up to a byte capacity.
package cache
