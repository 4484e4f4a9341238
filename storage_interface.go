package main

import (
	"context"

	"github.com/ahmad-alkadri/bucket-site/internal/services"
)

// StorageService is the object store as seen by the blob service
type StorageService interface {
	GetBlob(ctx context.Context, path string) (*services.Blob, error)
	Bucket() string
	Backend() string
}
