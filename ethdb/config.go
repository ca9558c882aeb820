package ethdb

import "errors"

// Backend configs are JSON-friendly descriptions of a Database, so callers
// can pick and tune a store from their own config files.

type MemoryConfig struct {
	InitialCapacity int `json:"initialCapacity"`
}

type LevelDBConfig struct {
	File    string `json:"file"`
	Cache   int    `json:"cache"`
	Handles int    `json:"handles"`
}

type RocksDBConfig struct {
	File                   string `json:"file"`
	BlockCacheSize         uint64 `json:"blockCacheSize"`
	WriteBufferSize        int    `json:"writeBufferSize"`
	DisableWAL             bool   `json:"disableWAL"`
	OptimizeForPointLookup bool   `json:"optimizeForPointLookup"`
}

// Config selects and configures exactly one backend, optionally fronted by a
// read cache of CacheSizeBytes capacity.
type Config struct {
	Memory         *MemoryConfig  `json:"memory,omitempty"`
	LevelDB        *LevelDBConfig `json:"leveldb,omitempty"`
	RocksDB        *RocksDBConfig `json:"rocksdb,omitempty"`
	CacheSizeBytes int            `json:"cacheSizeBytes,omitempty"`
}

func (self *MemoryConfig) NewDB() (Database, error) {
	if self.InitialCapacity > 0 {
		return NewMemDatabaseWithCap(self.InitialCapacity), nil
	}
	return NewMemDatabase(), nil
}

func (self *LevelDBConfig) NewDB() (Database, error) {
	return NewLDBDatabase(self.File, self.Cache, self.Handles)
}

func (self *Config) NewDB() (Database, error) {
	var db Database
	var err error
	switch {
	case self.Memory != nil:
		db, err = self.Memory.NewDB()
	case self.LevelDB != nil:
		db, err = self.LevelDB.NewDB()
	case self.RocksDB != nil:
		db, err = self.RocksDB.NewDB()
	default:
		return nil, errors.New("ethdb: no backend configured")
	}
	if err != nil {
		return nil, err
	}
	if self.CacheSizeBytes > 0 {
		db = NewCachedDatabase(db, self.CacheSizeBytes)
	}
	return db, nil
}
