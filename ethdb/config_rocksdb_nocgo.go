//go:build !cgo

package ethdb

import "errors"

func (self *RocksDBConfig) NewDB() (Database, error) {
	return nil, errors.New("ethdb: rocksdb backend requires cgo")
}
