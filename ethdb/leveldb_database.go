// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package ethdb

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const (
	minCacheMB   = 16
	minHandleCnt = 16
)

// LDBDatabase is a leveldb backed store.
type LDBDatabase struct {
	fn  string
	db  *leveldb.DB
	log log.Logger
}

// NewLDBDatabase opens (or creates) a leveldb database at file with the given
// cache size (in megabytes) and file handle allowance.
func NewLDBDatabase(file string, cache int, handles int) (*LDBDatabase, error) {
	logger := log.New("database", file)
	if cache < minCacheMB {
		cache = minCacheMB
	}
	if handles < minHandleCnt {
		handles = minHandleCnt
	}
	logger.Info("Allocated cache and file handles", "cache", cache, "handles", handles)

	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LDBDatabase{
		fn:  file,
		db:  db,
		log: logger,
	}, nil
}

// Path returns the path to the database directory.
func (self *LDBDatabase) Path() string {
	return self.fn
}

func (self *LDBDatabase) Put(key []byte, value []byte) error {
	return self.db.Put(key, value, nil)
}

func (self *LDBDatabase) Has(key []byte) (bool, error) {
	return self.db.Has(key, nil)
}

func (self *LDBDatabase) Get(key []byte) ([]byte, error) {
	dat, err := self.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dat, nil
}

func (self *LDBDatabase) Delete(key []byte) error {
	return self.db.Delete(key, nil)
}

func (self *LDBDatabase) Close() {
	if err := self.db.Close(); err != nil {
		self.log.Error("Failed to close database", "err", err)
		return
	}
	self.log.Info("Database closed")
}

func (self *LDBDatabase) NewBatch() Batch {
	return &ldbBatch{db: self.db, b: new(leveldb.Batch)}
}

type ldbBatch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (self *ldbBatch) Put(key, value []byte) error {
	self.b.Put(key, value)
	self.size += len(value)
	return nil
}

func (self *ldbBatch) Delete(key []byte) error {
	self.b.Delete(key)
	self.size += 1
	return nil
}

func (self *ldbBatch) Write() error {
	return self.db.Write(self.b, nil)
}

func (self *ldbBatch) ValueSize() int {
	return self.size
}

func (self *ldbBatch) Reset() {
	self.b.Reset()
	self.size = 0
}
