//go:build cgo

package ethdb

import (
	"github.com/tecbot/gorocksdb"
)

// RocksDBDatabase is a rocksdb backed store. It needs the rocksdb shared
// library at build time; use LDBDatabase where a pure-Go backend is required.
type RocksDBDatabase struct {
	path string
	db   *gorocksdb.DB
	ro   *gorocksdb.ReadOptions
	wo   *gorocksdb.WriteOptions
}

type RocksDBOpts struct {
	Path                   string
	BlockCacheSize         uint64
	WriteBufferSize        int
	DisableWAL             bool
	OptimizeForPointLookup bool
}

func NewRocksDBDatabase(opts RocksDBOpts) (*RocksDBDatabase, error) {
	db_opts := gorocksdb.NewDefaultOptions()
	db_opts.SetCreateIfMissing(true)
	if opts.OptimizeForPointLookup {
		// trie node lookups are always exact-key gets
		db_opts.OptimizeForPointLookup(opts.BlockCacheSize)
		db_opts.SetAllowConcurrentMemtableWrites(false)
	}
	if opts.WriteBufferSize != 0 {
		db_opts.SetWriteBufferSize(opts.WriteBufferSize)
	}
	db, err := gorocksdb.OpenDb(db_opts, opts.Path)
	if err != nil {
		return nil, err
	}
	wo := gorocksdb.NewDefaultWriteOptions()
	wo.DisableWAL(opts.DisableWAL)
	return &RocksDBDatabase{
		path: opts.Path,
		db:   db,
		ro:   gorocksdb.NewDefaultReadOptions(),
		wo:   wo,
	}, nil
}

func (self *RocksDBDatabase) Path() string {
	return self.path
}

func (self *RocksDBDatabase) Put(key []byte, value []byte) error {
	return self.db.Put(self.wo, key, value)
}

func (self *RocksDBDatabase) Has(key []byte) (bool, error) {
	slice, err := self.db.Get(self.ro, key)
	if err != nil {
		return false, err
	}
	defer slice.Free()
	return slice.Exists(), nil
}

func (self *RocksDBDatabase) Get(key []byte) ([]byte, error) {
	slice, err := self.db.Get(self.ro, key)
	if err != nil {
		return nil, err
	}
	defer slice.Free()
	if !slice.Exists() {
		return nil, ErrNotFound
	}
	ret := make([]byte, slice.Size())
	copy(ret, slice.Data())
	return ret, nil
}

func (self *RocksDBDatabase) Delete(key []byte) error {
	return self.db.Delete(self.wo, key)
}

func (self *RocksDBDatabase) Close() {
	self.ro.Destroy()
	self.wo.Destroy()
	self.db.Close()
}

func (self *RocksDBDatabase) NewBatch() Batch {
	return &rocksBatch{db: self, b: gorocksdb.NewWriteBatch()}
}

type rocksBatch struct {
	db   *RocksDBDatabase
	b    *gorocksdb.WriteBatch
	size int
}

func (self *rocksBatch) Put(key, value []byte) error {
	self.b.Put(key, value)
	self.size += len(value)
	return nil
}

func (self *rocksBatch) Delete(key []byte) error {
	self.b.Delete(key)
	self.size += 1
	return nil
}

func (self *rocksBatch) Write() error {
	return self.db.db.Write(self.db.wo, self.b)
}

func (self *rocksBatch) ValueSize() int {
	return self.size
}

func (self *rocksBatch) Reset() {
	self.b.Clear()
	self.size = 0
}
