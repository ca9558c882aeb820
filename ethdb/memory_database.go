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
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNotFound = errors.New("not found")

// MemDatabase is an in-memory, mutex-guarded store. Test and light-duty use
// only, nothing gets persisted.
type MemDatabase struct {
	db   map[string][]byte
	lock sync.RWMutex
}

func NewMemDatabase() *MemDatabase {
	return &MemDatabase{
		db: make(map[string][]byte),
	}
}

func NewMemDatabaseWithCap(size int) *MemDatabase {
	return &MemDatabase{
		db: make(map[string][]byte, size),
	}
}

func (self *MemDatabase) Put(key []byte, value []byte) error {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.db[string(key)] = common.CopyBytes(value)
	return nil
}

func (self *MemDatabase) Has(key []byte) (bool, error) {
	self.lock.RLock()
	defer self.lock.RUnlock()

	_, ok := self.db[string(key)]
	return ok, nil
}

func (self *MemDatabase) Get(key []byte) ([]byte, error) {
	self.lock.RLock()
	defer self.lock.RUnlock()

	if entry, ok := self.db[string(key)]; ok {
		return common.CopyBytes(entry), nil
	}
	return nil, ErrNotFound
}

func (self *MemDatabase) Delete(key []byte) error {
	self.lock.Lock()
	defer self.lock.Unlock()

	delete(self.db, string(key))
	return nil
}

// Keys returns a snapshot of all keys currently in the store.
func (self *MemDatabase) Keys() [][]byte {
	self.lock.RLock()
	defer self.lock.RUnlock()

	keys := make([][]byte, 0, len(self.db))
	for key := range self.db {
		keys = append(keys, []byte(key))
	}
	return keys
}

func (self *MemDatabase) Len() int {
	self.lock.RLock()
	defer self.lock.RUnlock()

	return len(self.db)
}

func (self *MemDatabase) Close() {}

func (self *MemDatabase) NewBatch() Batch {
	return &memBatch{db: self}
}

type kv struct {
	k, v []byte
	del  bool
}

type memBatch struct {
	db     *MemDatabase
	writes []kv
	size   int
}

func (self *memBatch) Put(key, value []byte) error {
	self.writes = append(self.writes, kv{common.CopyBytes(key), common.CopyBytes(value), false})
	self.size += len(value)
	return nil
}

func (self *memBatch) Delete(key []byte) error {
	self.writes = append(self.writes, kv{common.CopyBytes(key), nil, true})
	self.size += 1
	return nil
}

func (self *memBatch) Write() error {
	self.db.lock.Lock()
	defer self.db.lock.Unlock()

	for _, kv := range self.writes {
		if kv.del {
			delete(self.db.db, string(kv.k))
			continue
		}
		self.db.db[string(kv.k)] = kv.v
	}
	return nil
}

func (self *memBatch) ValueSize() int {
	return self.size
}

func (self *memBatch) Reset() {
	self.writes = self.writes[:0]
	self.size = 0
}
