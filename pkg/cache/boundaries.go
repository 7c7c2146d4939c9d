package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BoundaryCache memoises boundary.Find by file content.
type BoundaryCache struct {
	lru  *LRU
	path string
}

// NewBoundaryCache creates a cache of up to size files, persisted at path.
// An empty path keeps the cache in memory only.
func NewBoundaryCache(size int, path string) *BoundaryCache {
	return &BoundaryCache{lru: NewLRU(size), path: path}
}

// Open loads the persisted cache, if any.
func (b *BoundaryCache) Open() error {
	if b.path == "" {
		return nil
	}
	return b.lru.LoadFile(b.path)
}

// Flush persists the cache.
func (b *BoundaryCache) Flush() error {
	if b.path == "" {
		return nil
	}
	return b.lru.SaveFile(b.path)
}

// Lookup returns the functions in content, parsing only on a cache miss.
// The grammar is part of the key, so the same text read as .js and .ts is
// cached twice.
func (b *BoundaryCache) Lookup(ctx context.Context, content []byte, lang boundary.Language) ([]types.FunctionInfo, error) {
	key := string(lang) + ":" + HashBytes(content)
	if entry, ok := b.lru.Get(key); ok {
		return entry.Functions, nil
	}

	functions, err := boundary.Find(ctx, content, lang)
	if err != nil {
		return nil, err
	}
	b.lru.Set(key, functions)
	return functions, nil
}

// Stats returns the underlying LRU statistics.
func (b *BoundaryCache) Stats() Stats {
	return b.lru.Stats()
}
