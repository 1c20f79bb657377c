package penpot

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/exp/maps"
)

const DefaultFileCacheTtl = 600 * time.Second

// FileCache is a time-bounded cache of whole fetched documents. An
// entry is either the literal last full fetch or absent; mutations do
// not write through it, so cached reads are advisory. Callers that
// need fresh state after mutating must bypass it.
type FileCache struct {
	ttl time.Duration
	now func() time.Time

	stateLock sync.Mutex
	entries   map[string]*fileCacheEntry
}

type fileCacheEntry struct {
	file       *File
	insertTime time.Time
}

func NewFileCache(ttl time.Duration) *FileCache {
	if ttl <= 0 {
		ttl = DefaultFileCacheTtl
	}
	return &FileCache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]*fileCacheEntry{},
	}
}

// Get returns the cached snapshot unless its age exceeds the ttl.
func (self *FileCache) Get(fileId string) (*File, bool) {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	entry, ok := self.entries[fileId]
	if !ok {
		return nil, false
	}
	if self.ttl < self.now().Sub(entry.insertTime) {
		delete(self.entries, fileId)
		glog.V(2).Infof("[cache]%s expired\n", fileId)
		return nil, false
	}
	return entry.file, true
}

func (self *FileCache) Put(fileId string, file *File) {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	self.entries[fileId] = &fileCacheEntry{
		file:       file,
		insertTime: self.now(),
	}
}

func (self *FileCache) Invalidate(fileId string) {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	delete(self.entries, fileId)
}

// Ids lists the ids of all unexpired entries.
func (self *FileCache) Ids() []string {
	self.stateLock.Lock()
	defer self.stateLock.Unlock()

	for fileId, entry := range self.entries {
		if self.ttl < self.now().Sub(entry.insertTime) {
			delete(self.entries, fileId)
		}
	}
	return maps.Keys(self.entries)
}

// GetFileCached reads through the cache: a hit returns the cached
// snapshot, a miss fetches fresh and populates the cache.
func (self *PenpotApi) GetFileCached(ctx context.Context, cache *FileCache, fileId string) (*File, error) {
	if file, ok := cache.Get(fileId); ok {
		glog.V(2).Infof("[cache]%s hit\n", fileId)
		return file, nil
	}
	file, err := self.GetFile(ctx, fileId)
	if err != nil {
		return nil, err
	}
	cache.Put(fileId, file)
	return file, nil
}
