package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	appErrors "github.com/pagerank-bench/pkg/errors"
)

// LocalStorage implements Storage on the local filesystem, keeping graph
// files and exported rank vectors under a single base directory. It is
// the default backend for single-machine benchmarking, where graphs are
// already on disk and "uploading" a rank vector just files it next to
// them.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./storage"
	}

	// Ensure base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to create storage directory", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload stores the reader's contents under key, creating any
// intermediate directories the key implies (e.g. "runs/<uuid>/ranks.json").
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fullPath := s.getFullPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to create directory for "+key, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to create "+key, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to write "+key, err)
	}

	return nil
}

// UploadFile stores the file at localPath under key.
func (s *LocalStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to open source file", err)
	}
	defer src.Close()

	return s.Upload(ctx, key, src)
}

// Download opens the object stored under key for reading. The caller
// owns the returned ReadCloser.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(s.getFullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.New(appErrors.CodeNotFound, "file not found: "+key)
		}
		return nil, appErrors.Wrap(appErrors.CodeDownloadError, "failed to open "+key, err)
	}

	return file, nil
}

// DownloadFile copies the object stored under key to localPath, the path
// a solve's working directory expects its graph file at.
func (s *LocalStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	src, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return appErrors.Wrap(appErrors.CodeDownloadError, "failed to create directory", err)
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeDownloadError, "failed to create destination file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return appErrors.Wrap(appErrors.CodeDownloadError, "failed to copy "+key, err)
	}

	return nil
}

// Delete removes the object stored under key. Deleting a key that does
// not exist is not an error, so retention sweeps are idempotent.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.Remove(s.getFullPath(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return appErrors.Wrap(appErrors.CodeUnknown, "failed to delete "+key, err)
	}

	return nil
}

// Exists reports whether an object is stored under key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	_, err := os.Stat(s.getFullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, appErrors.Wrap(appErrors.CodeUnknown, "failed to stat "+key, err)
	}

	return true, nil
}

// GetURL returns the filesystem path backing key; local storage has no
// URL scheme to offer.
func (s *LocalStorage) GetURL(key string) string {
	return s.getFullPath(key)
}

// getFullPath returns the full filesystem path for the given key.
func (s *LocalStorage) getFullPath(key string) string {
	return filepath.Join(s.basePath, key)
}

// GetBasePath returns the base path for the local storage.
func (s *LocalStorage) GetBasePath() string {
	return s.basePath
}
