package config

import (
	"path/filepath"
	"time"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendBolt   = "bolt"
)

type StorageConfig interface {
	GetStoreBackend() string
	GetDataDir() string
	GetCredentialDBPath() string
	GetScopeCookieMaxAge() time.Duration
}

type Storage struct {
	Backend string `env:"STORE_BACKEND" default:"bolt" validate:"oneof=memory bolt"`
	DataDir string `env:"DATA_DIR" default:"./data" validate:"required"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetStoreBackend() string {
	return s.Backend
}

func (s Storage) GetDataDir() string {
	return s.DataDir
}

func (s Storage) GetCredentialDBPath() string {
	return filepath.Join(s.DataDir, "credentials.db")
}

// GetScopeCookieMaxAge is how long a browser keeps its storage scope, mirroring local storage.
func (Storage) GetScopeCookieMaxAge() time.Duration {
	return 365 * 24 * time.Hour
}
