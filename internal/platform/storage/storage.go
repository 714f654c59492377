// Package storage opens the blob bucket that holds uploaded documents.
package storage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// DefaultBucketURL keeps uploads in process memory.
const DefaultBucketURL = "mem://"

// OpenBucket opens url (file:///path?create_dir=true, mem://). An empty url falls back to memory.
func OpenBucket(ctx context.Context, url string, logger *slog.Logger) (*blob.Bucket, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		if logger != nil {
			logger.Warn("UPLOADS_BUCKET_URL not set, keeping uploaded documents in memory")
		}
		url = DefaultBucketURL
	}
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}
	return bucket, nil
}
