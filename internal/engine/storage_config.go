package engine

import (
	"rdbi/internal/storage"
	"rdbi/internal/storage/filestore"
	"rdbi/internal/storage/memstore"
)

// StorageConfig selects which backend NewTable provisions for a table.
type StorageConfig struct {
	disk bool
	path string
}

// InMemoryStorage provisions the packed-arena backend.
func InMemoryStorage() StorageConfig {
	return StorageConfig{}
}

// DiskStorage provisions the append-only tombstoned log backend rooted
// at path.
func DiskStorage(path string) StorageConfig {
	return StorageConfig{disk: true, path: path}
}

func (c StorageConfig) build(numColumns int) (storage.Backend, error) {
	if c.disk {
		return filestore.New(c.path, numColumns)
	}
	return memstore.New(numColumns), nil
}
