package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"flatrate/internal/platform/config"
)

// Store holds proof photos. Rows in the database always reference a key;
// image bytes never land in a table.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// URL returns a location a client can fetch the object from for display.
	// For GCS this is a short-lived signed URL.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.BlobProvider {
	case "gcs":
		return newGCSStore(ctx, cfg.GCSBucket, cfg.SignedURLTTL)
	case "local":
		return newLocalStore(cfg.StorageDir)
	default:
		return nil, fmt.Errorf("unknown blob provider %q", cfg.BlobProvider)
	}
}

// ObjectKey namespaces proof photos by user and employee number.
func ObjectKey(userID, employeeNumber, entryID, contentType string) string {
	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	return fmt.Sprintf("%s/%s/%s.%s", userID, employeeNumber, entryID, ext)
}

// DecodeDataURL splits an inline base64 image (data:image/jpeg;base64,...)
// into its content type and raw bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	head, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(head, "data:") {
		return "", nil, errors.New("not a data url")
	}
	contentType := strings.TrimPrefix(head, "data:")
	contentType = strings.TrimSuffix(contentType, ";base64")
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", nil, fmt.Errorf("unsupported image type %q", contentType)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return contentType, decoded, nil
}
