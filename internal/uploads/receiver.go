package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"cv-backend/internal/shared/storage/object"
	"cv-backend/internal/shared/telemetry"
)

// ErrNoFile is returned when the request carried no file part.
var ErrNoFile = errors.New("no file uploaded")

const fallbackName = "upload"

// Receiver stages uploaded files in an object store.
type Receiver struct {
	Store object.ObjectStore
}

// NewReceiver constructs a Receiver.
func NewReceiver(store object.ObjectStore) *Receiver {
	return &Receiver{Store: store}
}

// Document is a staged upload. It lives for one request; callers must
// Release it on every path.
type Document struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string

	store object.ObjectStore
}

// Receive copies the multipart file into the store. The file type is not
// validated here; unreadable documents fail at text extraction.
func (r *Receiver) Receive(ctx context.Context, fh *multipart.FileHeader) (*Document, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := displayName(fh.Filename)
	key, size, mimeType, err := r.Store.Save(ctx, stagingName(name), src)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		if declared := strings.TrimSpace(fh.Header.Get("Content-Type")); declared != "" {
			mimeType = declared
		}
	}

	return &Document{
		FileName:   name,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: key,
		store:      r.Store,
	}, nil
}

// Bytes reads the staged content back.
func (d *Document) Bytes(ctx context.Context) ([]byte, error) {
	rc, err := d.store.Open(ctx, d.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open staged upload %s: %w", d.StorageKey, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read staged upload %s: %w", d.StorageKey, err)
	}
	return data, nil
}

// Release deletes the staged object. Failures are logged and returned.
func (d *Document) Release(ctx context.Context) error {
	if d == nil || d.StorageKey == "" {
		return nil
	}
	// cleanup still runs when the request context is already canceled
	ctx = context.WithoutCancel(ctx)
	if err := d.store.Delete(ctx, d.StorageKey); err != nil {
		telemetry.Warn("upload.release_failed", map[string]any{
			"storage_key": d.StorageKey,
			"error":       err,
		})
		return err
	}
	return nil
}

func displayName(raw string) string {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return fallbackName
	}
	return name
}

// stagingName avoids names the store's sanitizer rejects.
func stagingName(name string) string {
	name = strings.ReplaceAll(name, "..", "_")
	if strings.TrimSpace(name) == "" {
		return fallbackName
	}
	return name
}
