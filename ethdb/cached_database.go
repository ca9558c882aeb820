package ethdb

import (
	"github.com/coocood/freecache"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	cacheHitMeter  = metrics.NewRegisteredMeter("ethdb/cache/hit", nil)
	cacheMissMeter = metrics.NewRegisteredMeter("ethdb/cache/miss", nil)
)

// CachedDatabase wraps a Database with an in-memory read cache for the raw
// entries. Because trie keys are content hashes an entry can never change
// under a key, so cached reads are always coherent with the backend; only
// Delete has to invalidate.
type CachedDatabase struct {
	db    Database
	cache *freecache.Cache
}

// NewCachedDatabase creates the wrapper with a cache of size_bytes capacity.
func NewCachedDatabase(db Database, size_bytes int) *CachedDatabase {
	return &CachedDatabase{
		db:    db,
		cache: freecache.NewCache(size_bytes),
	}
}

func (self *CachedDatabase) Put(key []byte, value []byte) error {
	if err := self.db.Put(key, value); err != nil {
		return err
	}
	self.cache.Set(key, value, 0)
	return nil
}

func (self *CachedDatabase) Has(key []byte) (bool, error) {
	if _, err := self.cache.Get(key); err == nil {
		return true, nil
	}
	return self.db.Has(key)
}

func (self *CachedDatabase) Get(key []byte) ([]byte, error) {
	if v, err := self.cache.Get(key); err == nil {
		cacheHitMeter.Mark(1)
		return v, nil
	}
	cacheMissMeter.Mark(1)
	v, err := self.db.Get(key)
	if err != nil {
		return nil, err
	}
	self.cache.Set(key, v, 0)
	return v, nil
}

func (self *CachedDatabase) Delete(key []byte) error {
	self.cache.Del(key)
	return self.db.Delete(key)
}

func (self *CachedDatabase) Close() {
	self.cache.Clear()
	self.db.Close()
}

// NewBatch returns a batch of the underlying database. Batched writes skip
// the cache and get pulled in on first read instead.
func (self *CachedDatabase) NewBatch() Batch {
	return self.db.NewBatch()
}
