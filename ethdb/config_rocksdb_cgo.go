//go:build cgo

package ethdb

func (self *RocksDBConfig) NewDB() (Database, error) {
	return NewRocksDBDatabase(RocksDBOpts{
		Path:                   self.File,
		BlockCacheSize:         self.BlockCacheSize,
		WriteBufferSize:        self.WriteBufferSize,
		DisableWAL:             self.DisableWAL,
		OptimizeForPointLookup: self.OptimizeForPointLookup,
	})
}
