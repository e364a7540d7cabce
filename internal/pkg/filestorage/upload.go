package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// Uploader checks uploaded files and hands them to a Storage
type Uploader struct {
	storage  Storage
	maxBytes int64
	now      func() time.Time
}

// NewUploader creates an Uploader that rejects files above maxMB megabytes
func NewUploader(storage Storage, maxMB int) *Uploader {
	return &Uploader{
		storage:  storage,
		maxBytes: int64(maxMB) << 20,
		now:      time.Now,
	}
}

// Storage returns the underlying backend
func (u *Uploader) Storage() Storage {
	return u.storage
}

// Upload validates the file and stores it under a generated key
func (u *Uploader) Upload(ctx context.Context, bucket, prefix string, fh *multipart.FileHeader) (Object, error) {
	if fh == nil {
		return Object{}, apperrors.ErrFileRequired
	}
	if fh.Size > u.maxBytes {
		return Object{}, apperrors.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return Object{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	return u.put(ctx, bucket, prefix, fh.Filename, f, fh.Size)
}

func (u *Uploader) put(ctx context.Context, bucket, prefix, filename string, r io.Reader, size int64) (Object, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Object{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Object{}, apperrors.ErrFileRequired
	}

	contentType := http.DetectContentType(head)
	if models.ImageBuckets[bucket] && !strings.HasPrefix(contentType, "image/") {
		return Object{}, apperrors.ErrUnsupportedFileType
	}

	key := GenerateKey(prefix, filename, u.now())
	return u.storage.Put(ctx, bucket, key, contentType, io.MultiReader(bytes.NewReader(head), r), size)
}
