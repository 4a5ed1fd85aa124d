package object

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ObjectStore defines the contract for staging and retrieving uploaded binaries.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// StagedName builds the collision-resistant object name used by every backend:
// upload time, a random suffix and the sanitized original name.
func StagedName(now time.Time, random, sanitizedName string) string {
	return fmt.Sprintf("%d-%s_%s", now.UnixNano(), random, sanitizedName)
}
