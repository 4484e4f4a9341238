package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
)

// ErrBlobNotFound is returned (possibly wrapped) when the bucket holds no
// object at the requested path.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is one object read out of the bucket.
type Blob struct {
	Bucket          string
	Path            string
	Data            []byte
	ContentType     string
	ContentEncoding string
}

// BlobStore is implemented by every storage backend.
type BlobStore interface {
	GetBlob(ctx context.Context, path string) (*Blob, error)
	Bucket() string
	Backend() string
}

// NewBlobStore builds the backend selected by cfg.StorageBackend.
func NewBlobStore(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageBackend {
	case config.BackendGCS:
		return NewGCSService(ctx, cfg)
	case config.BackendMinio:
		return NewMinioService(cfg)
	case config.BackendS3:
		return NewS3Service(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
