// Package blob provides the flat key→bytes asset store route photos live in.
// Keys are derived from route titles at the point of use; writing an existing
// key overwrites it, which is how two same-titled routes end up sharing (and
// clobbering) one photo.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Driver identifies a concrete blob backend.
type Driver string

const (
	// DriverFilesystem stores blobs under a local directory (dev default).
	DriverFilesystem Driver = "fs"
	// DriverS3 stores blobs in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps blobs in process memory (tests).
	DriverMemory Driver = "memory"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob: not found")

// ErrTooLarge is returned by Get when the blob exceeds the caller's limit.
var ErrTooLarge = errors.New("blob: object exceeds byte limit")

// Store is the asset store surface. Put overwrites silently; Get enforces
// the caller's byte limit. There is intentionally no Delete: route deletion
// never cleans up photos, so an orphaned blob under a dead title is normal.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	Driver() Driver
}

// Open selects a Store implementation from environment variables.
//
//	TRAILPOST_BLOB_DRIVER: fs|s3|memory (default fs)
//	TRAILPOST_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("TRAILPOST_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("TRAILPOST_BLOB_FS_ROOT"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
