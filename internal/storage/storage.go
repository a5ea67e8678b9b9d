// Package storage wraps the object-storage provider: presigned URL issuance,
// key construction for the staging and permanent zones, and promotion of
// staged objects. Swap implementations by changing the concrete type injected
// at startup — the S3 implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"fmt"
	"time"
)

// ObjectStorage is the provider capability surface the service depends on.
// Signing is the provider's job; this layer owns policy (expiry defaults,
// upload constraints) and error wrapping.
type ObjectStorage interface {
	// GenerateUploadURL mints a presigned PUT URL for key. The signed request
	// pins the exact content length and content type the client declared.
	GenerateUploadURL(ctx context.Context, key string, sizeBytes int64, contentType string, expires time.Duration) (string, error)

	// GenerateDownloadURL mints a presigned GET URL. bucket may be empty to
	// use the configured default.
	GenerateDownloadURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)

	// GenerateDeleteURL mints a presigned DELETE URL for key.
	GenerateDeleteURL(ctx context.Context, key string, expires time.Duration) (string, error)

	// CopyObject copies srcKey to dstKey within bucket.
	CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error

	// DeleteObject removes key from bucket.
	DeleteObject(ctx context.Context, bucket, key string) error

	// ObjectExists reports whether key is present in bucket. A missing object
	// is not an error.
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
}

// ProviderError wraps a failed object-store call. Callers abort metadata
// mutations when they see one on a delete or finalize path.
type ProviderError struct {
	Op  string
	Key string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("storage provider: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
