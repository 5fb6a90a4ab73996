package blobstore

import (
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/intertext/internal/cache"
)

// DefaultCacheBytes is the cache capacity used when none is given.
const DefaultCacheBytes = 64 << 20

// CachingStore wraps a BlobStore and caches whole blobs read through Open.
// Writes go to the inner store and invalidate the cached copy.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRU
}

// NewCachingStore creates a new CachingStore.
// capacity defaults to DefaultCacheBytes if <= 0.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	if capacity <= 0 {
		capacity = DefaultCacheBytes
	}
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity),
	}
}

// Open returns the cached blob or reads it fully from the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if data, ok := s.cache.Get(name); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.cache.Remove(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
