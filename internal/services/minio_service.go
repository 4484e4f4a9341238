package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
)

type MinioService struct {
	client *minio.Client
	bucket string
}

// NewMinioService creates a new MinIO service
func NewMinioService(cfg *config.Config) (*MinioService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &MinioService{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (m *MinioService) Bucket() string  { return m.bucket }
func (m *MinioService) Backend() string { return config.BackendMinio }

// GetBlob retrieves an object from MinIO along with its Content-Encoding
// metadata.
func (m *MinioService) GetBlob(ctx context.Context, path string) (*Blob, error) {
	object, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.wrapError(path, err)
	}
	defer object.Close()

	info, err := object.Stat()
	if err != nil {
		return nil, m.wrapError(path, err)
	}

	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(object); err != nil {
		return nil, m.wrapError(path, err)
	}

	return &Blob{
		Bucket:          m.bucket,
		Path:            path,
		Data:            buffer.Bytes(),
		ContentType:     info.ContentType,
		ContentEncoding: info.Metadata.Get("Content-Encoding"),
	}, nil
}

func (m *MinioService) wrapError(path string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("minio %s/%s: %w", m.bucket, path, ErrBlobNotFound)
	}
	return fmt.Errorf("failed to get object %s: %w", path, err)
}
