package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tencentyun/cos-go-sdk-v5"

	appErrors "github.com/pagerank-bench/pkg/errors"
)

// COSConfig holds COS-specific configuration.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g., "myqcloud.com"
	Scheme    string // e.g., "https" or "http"
}

// COSStorage implements Storage on Tencent Cloud COS, used when graph
// datasets and archived rank vectors are shared across benchmark hosts:
// the scheduler pulls graphs from the bucket and files each run's rank
// vector back under its runs/ prefix.
type COSStorage struct {
	client *cos.Client
	bucket string
	region string
	domain string
	scheme string
}

// NewCOSStorage creates a new COSStorage instance.
func NewCOSStorage(cfg *COSConfig) (*COSStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, appErrors.New(appErrors.CodeConfigError, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, appErrors.New(appErrors.CodeConfigError, "credentials are required for COS storage")
	}

	// Set defaults for domain and scheme
	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to parse bucket URL", err)
	}

	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to parse service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStorage{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		domain: domain,
		scheme: scheme,
	}, nil
}

// Upload stores the reader's contents under key in the bucket.
func (s *COSStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	_, err := s.client.Object.Put(ctx, key, reader, nil)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to upload "+key+" to COS", err)
	}
	return nil
}

// UploadFile stores the file at localPath under key in the bucket,
// letting the SDK stream it without buffering the whole rank vector.
func (s *COSStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	_, err := s.client.Object.PutFromFile(ctx, key, localPath, nil)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeUploadError, "failed to upload file "+key+" to COS", err)
	}
	return nil
}

// Download opens the object stored under key for reading. The caller
// owns the returned ReadCloser.
func (s *COSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CodeDownloadError, "failed to download "+key+" from COS", err)
	}
	return resp.Body, nil
}

// DownloadFile copies the object stored under key to localPath, the path
// a solve's working directory expects its graph file at.
func (s *COSStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return appErrors.Wrap(appErrors.CodeDownloadError, "failed to create directory", err)
	}

	_, err := s.client.Object.GetToFile(ctx, key, localPath, nil)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeDownloadError, "failed to download file "+key+" from COS", err)
	}
	return nil
}

// Delete removes the object stored under key.
func (s *COSStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.Object.Delete(ctx, key, nil)
	if err != nil {
		return appErrors.Wrap(appErrors.CodeUnknown, "failed to delete "+key+" from COS", err)
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (s *COSStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, appErrors.Wrap(appErrors.CodeUnknown, "failed to check existence of "+key+" in COS", err)
	}
	return ok, nil
}

// GetURL returns the public URL for the specified key.
func (s *COSStorage) GetURL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.scheme, s.bucket, s.region, s.domain, key)
}
