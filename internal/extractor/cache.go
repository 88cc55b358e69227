package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoises file extractions by language, path and content hash, so an
// unchanged file is never parsed twice. It is safe for concurrent use.
type Cache struct {
	store *lru.Cache[string, FileExtraction]
}

// NewCache creates a cache holding up to capacity extractions, evicting the
// least recently used entry when full.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	store, err := lru.New[string, FileExtraction](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}
	return &Cache{store: store}, nil
}

// Get returns the cached extraction for this exact content, if any.
func (c *Cache) Get(language, path string, content []byte) (FileExtraction, bool) {
	return c.store.Get(cacheKey(language, path, content))
}

// Set stores an extraction.
func (c *Cache) Set(language, path string, content []byte, extraction FileExtraction) {
	c.store.Add(cacheKey(language, path, content), extraction)
}

func (c *Cache) size() int {
	return c.store.Len()
}

func cacheKey(language, path string, content []byte) string {
	sum := sha256.Sum256(content)
	return language + "\x00" + path + "\x00" + hex.EncodeToString(sum[:])
}
