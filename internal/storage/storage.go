// Package storage provides object storage abstraction for graph inputs and
// rank-vector outputs.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/pagerank-bench/pkg/config"
)

// Storage is the object store holding graph datasets and solved rank
// vectors. Keys follow two conventions: graph files live under the key
// recorded in a run's GraphName, and each completed run's rank vector is
// filed under "runs/<uuid>/ranks.json".
type Storage interface {
	// Upload stores the reader's contents under key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadFile stores the file at localPath under key.
	UploadFile(ctx context.Context, key string, localPath string) error

	// Download opens the object stored under key for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// DownloadFile copies the object stored under key to a local file,
	// e.g. staging a graph into a solve's working directory.
	DownloadFile(ctx context.Context, key string, localPath string) error

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL (or filesystem path) backing key.
	GetURL(key string) string
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return fmt.Errorf("storage config is nil")
	}

	storageType := StorageType(cfg.Type)

	// Empty type defaults to local
	if storageType == "" {
		storageType = StorageTypeLocal
	}

	if storageType != StorageTypeCOS && storageType != StorageTypeLocal {
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	if storageType == StorageTypeCOS {
		if cfg.Bucket == "" {
			return fmt.Errorf("COS bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	}

	if storageType == StorageTypeLocal {
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	}

	return nil
}
