package ethdb

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigMemory(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"memory": {"initialCapacity": 64}}`), &cfg))

	db, err := cfg.NewDB()
	require.NoError(t, err)
	defer db.Close()
	require.IsType(t, &MemDatabase{}, db)
	testDatabaseSemantics(t, db)
}

func TestConfigCached(t *testing.T) {
	cfg := Config{Memory: &MemoryConfig{}, CacheSizeBytes: 512 * 1024}
	db, err := cfg.NewDB()
	require.NoError(t, err)
	defer db.Close()
	require.IsType(t, &CachedDatabase{}, db)
	testDatabaseSemantics(t, db)
}

func TestConfigLevelDB(t *testing.T) {
	raw, err := json.Marshal(Config{
		LevelDB: &LevelDBConfig{File: filepath.Join(t.TempDir(), "db")},
	})
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, json.Unmarshal(raw, &cfg))
	db, err := cfg.NewDB()
	require.NoError(t, err)
	defer db.Close()
	testDatabaseSemantics(t, db)
}

func TestConfigNoBackend(t *testing.T) {
	_, err := new(Config).NewDB()
	require.Error(t, err)
}
