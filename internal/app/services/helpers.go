package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
)

func userPrefix(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// removeObject deletes a stored object without failing the caller
func removeObject(ctx context.Context, storage filestorage.Storage, logger zerolog.Logger, bucket, key string) {
	if key == "" {
		return
	}
	if err := storage.Delete(ctx, bucket, key); err != nil {
		logger.Warn().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to delete stored object")
	}
}

func toggleResult(on bool) string {
	if on {
		return metrics.ResultAdded
	}
	return metrics.ResultRemoved
}
