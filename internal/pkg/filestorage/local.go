package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
// Objects live at <basePath>/<bucket>/<key> and are served under /uploads.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Public URL of the API, prepended to /uploads
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory served as /uploads
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Put saves the object to disk
func (ls *LocalStorage) Put(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) (Object, error) {
	if !validKey(bucket) || !validKey(key) {
		return Object{}, fmt.Errorf("invalid object key %q/%q", bucket, key)
	}

	dstPath := filepath.Join(ls.basePath, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return Object{}, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return Object{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, body); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return Object{}, fmt.Errorf("failed to save file content: %w", err)
	}

	obj := Object{Bucket: bucket, Key: key, URL: ls.URL(bucket, key)}
	logger.Debug().Str("bucket", bucket).Str("key", key).Int64("size", size).Msg("File saved successfully")
	return obj, nil
}

// Delete removes a file from the storage filesystem.
// Returns nil if the file doesn't exist.
func (ls *LocalStorage) Delete(ctx context.Context, bucket, key string) error {
	if key == "" {
		return nil
	}
	if !validKey(bucket) || !validKey(key) {
		return fmt.Errorf("invalid object key %q/%q", bucket, key)
	}

	physicalPath := filepath.Join(ls.basePath, bucket, filepath.FromSlash(key))
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns <baseURL>/uploads/<bucket>/<key>
func (ls *LocalStorage) URL(bucket, key string) string {
	return ls.baseURL + "/uploads/" + bucket + "/" + key
}
