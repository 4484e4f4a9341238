//go:build integration

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
	"github.com/ahmad-alkadri/bucket-site/internal/services"
)

// Full server against a real MinIO instance
// Run with: go test -tags=integration ./...
func TestServer_MinioIntegration(t *testing.T) {
	if os.Getenv("MINIO_ENDPOINT") == "" {
		t.Skip("Skipping integration test: MINIO_ENDPOINT not set")
	}

	t.Setenv("CLOUD_STORAGE_BUCKET", "bucket-site-server-it")
	t.Setenv("STORAGE_BACKEND", config.BackendMinio)
	cfg, err := config.Load(config.NewViper())
	require.NoError(t, err)

	ctx := context.Background()
	admin, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	require.NoError(t, err)

	exists, err := admin.BucketExists(ctx, cfg.Bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, admin.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}))
	}

	prefix := "it_" + time.Now().Format("20060102_150405")
	objects := map[string][]byte{
		prefix + "/index.html": []byte("<html>minio</html>"),
		prefix + "/cafe.txt":   {0x63, 0x61, 0x66, 0xe9},
	}
	encodings := map[string]string{prefix + "/cafe.txt": "latin-1"}
	for name, data := range objects {
		_, err := admin.PutObject(ctx, cfg.Bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentEncoding: encodings[name],
		})
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		for name := range objects {
			_ = admin.RemoveObject(ctx, cfg.Bucket, name, minio.RemoveObjectOptions{})
		}
	})

	store, err := services.NewBlobStore(ctx, cfg)
	require.NoError(t, err)

	logger, _ := newTestLogger()
	srv := httptest.NewServer(NewRouter(logger, createTestHandler(store, true)))
	defer srv.Close()

	status, body := get(t, srv.URL+"/"+prefix+"/index.html")
	assert.Equal(t, 200, status)
	assert.Equal(t, "<html>minio</html>", body)

	status, body = get(t, srv.URL+"/"+prefix+"/cafe.txt")
	assert.Equal(t, 200, status)
	assert.Equal(t, "café", body)

	status, body = get(t, srv.URL+"/"+prefix+"/missing.txt")
	assert.Equal(t, 200, status)
	assert.Empty(t, body)
}
