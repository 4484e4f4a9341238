package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
)

func TestNewBlobStore(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	ctx := context.Background()
	base := config.Config{
		Bucket:         "site",
		GCSEndpoint:    "http://localhost:4443/storage/v1/",
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		S3Region:       "us-east-1",
	}

	for _, backend := range []string{config.BackendGCS, config.BackendMinio, config.BackendS3} {
		t.Run(backend, func(t *testing.T) {
			cfg := base
			cfg.StorageBackend = backend

			store, err := NewBlobStore(ctx, &cfg)
			require.NoError(t, err)
			assert.Equal(t, backend, store.Backend())
			assert.Equal(t, "site", store.Bucket())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		cfg := base
		cfg.StorageBackend = "azure"

		_, err := NewBlobStore(ctx, &cfg)
		assert.ErrorContains(t, err, "unsupported storage backend")
	})
}
