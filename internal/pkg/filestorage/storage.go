package filestorage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object identifies a stored file and where it can be fetched.
type Object struct {
	Bucket string
	Key    string
	URL    string
}

// Storage stores uploaded files under a logical bucket and key.
type Storage interface {
	// Put writes the object and returns its public URL
	Put(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) (Object, error)

	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, bucket, key string) error

	// URL returns the public URL of an object
	URL(bucket, key string) string
}

// GenerateKey builds "[prefix/]{unixMillis}-{8 hex}{.ext}" for an uploaded filename.
func GenerateKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	key := fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, ext)

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// validKey rejects keys that would escape the bucket.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

// KeyFromURL recovers the key of an object in bucket from the URL s issued for it.
func KeyFromURL(s Storage, bucket, url string) (string, bool) {
	prefix := s.URL(bucket, "")
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, validKey(key)
}
