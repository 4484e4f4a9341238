package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
)

// GCSService reads objects out of a Google Cloud Storage bucket.
type GCSService struct {
	client *storage.Client
	bucket string
}

// NewGCSService creates a GCS client using application default credentials.
// When cfg.GCSEndpoint is set the client talks to that endpoint without
// authentication, which is how emulators are reached.
func NewGCSService(ctx context.Context, cfg *config.Config) (*GCSService, error) {
	var opts []option.ClientOption
	if cfg.GCSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.GCSEndpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
	}
	return NewGCSServiceFromClient(client, cfg.Bucket), nil
}

// NewGCSServiceFromClient wraps an existing client.
func NewGCSServiceFromClient(client *storage.Client, bucket string) *GCSService {
	return &GCSService{client: client, bucket: bucket}
}

func (s *GCSService) Bucket() string  { return s.bucket }
func (s *GCSService) Backend() string { return config.BackendGCS }

// GetBlob reads the stored bytes and takes the encoding label from the same
// reader, so both belong to one object generation. Decompressive transcoding
// is disabled so a gzip label always comes with gzip bytes.
func (s *GCSService) GetBlob(ctx context.Context, path string) (*Blob, error) {
	r, err := s.client.Bucket(s.bucket).Object(path).ReadCompressed(true).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gs://%s/%s: %w", s.bucket, path, ErrBlobNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}

	return &Blob{
		Bucket:          s.bucket,
		Path:            path,
		Data:            data,
		ContentType:     r.Attrs.ContentType,
		ContentEncoding: r.Attrs.ContentEncoding,
	}, nil
}

// Close releases the underlying client.
func (s *GCSService) Close() error {
	return s.client.Close()
}
