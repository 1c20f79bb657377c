package penpot

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestFileCacheTtl(t *testing.T) {
	current := time.Now()
	cache := NewFileCache(600 * time.Second)
	cache.now = func() time.Time {
		return current
	}

	cache.Put("file-1", &File{Id: "file-1", Revn: 5})

	file, ok := cache.Get("file-1")
	assert.Equal(t, ok, true)
	assert.Equal(t, file.Revn, 5)

	// still inside the ttl
	current = current.Add(600 * time.Second)
	_, ok = cache.Get("file-1")
	assert.Equal(t, ok, true)

	// one second past the ttl is a miss
	current = current.Add(1 * time.Second)
	_, ok = cache.Get("file-1")
	assert.Equal(t, ok, false)
}

func TestFileCacheInvalidate(t *testing.T) {
	cache := NewFileCache(600 * time.Second)
	cache.Put("file-1", &File{Id: "file-1"})

	cache.Invalidate("file-1")
	_, ok := cache.Get("file-1")
	assert.Equal(t, ok, false)

	// invalidating an absent entry is a no-op
	cache.Invalidate("file-2")
}

func TestFileCacheReplacesWholeSnapshot(t *testing.T) {
	cache := NewFileCache(600 * time.Second)
	cache.Put("file-1", &File{Id: "file-1", Revn: 5})
	cache.Put("file-1", &File{Id: "file-1", Revn: 7})

	file, ok := cache.Get("file-1")
	assert.Equal(t, ok, true)
	assert.Equal(t, file.Revn, 7)

	assert.Equal(t, cache.Ids(), []string{"file-1"})
}
