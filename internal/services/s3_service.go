package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ahmad-alkadri/bucket-site/internal/config"
)

// S3Service reads objects out of an AWS S3 (or S3-compatible) bucket.
type S3Service struct {
	client *s3.Client
	bucket string
}

// NewS3Service loads the default AWS configuration chain and applies the
// region, endpoint and addressing overrides from cfg.
func NewS3Service(ctx context.Context, cfg *config.Config) (*S3Service, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, S3ClientOptions(cfg)...)
	return NewS3ServiceFromClient(client, cfg.Bucket), nil
}

// S3ClientOptions returns the s3.Options overrides implied by cfg.
func S3ClientOptions(cfg *config.Config) []func(*s3.Options) {
	var opts []func(*s3.Options)
	if cfg.S3Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		})
	}
	if cfg.S3UsePathStyle {
		opts = append(opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return opts
}

// NewS3ServiceFromClient wraps an existing client.
func NewS3ServiceFromClient(client *s3.Client, bucket string) *S3Service {
	return &S3Service{client: client, bucket: bucket}
}

func (s *S3Service) Bucket() string  { return s.bucket }
func (s *S3Service) Backend() string { return config.BackendS3 }

func (s *S3Service) GetBlob(ctx context.Context, path string) (*Blob, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if err != nil && (errors.As(err, &nsk) || errors.As(err, &nf)) {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, path, ErrBlobNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}

	return &Blob{
		Bucket:          s.bucket,
		Path:            path,
		Data:            data,
		ContentType:     aws.ToString(output.ContentType),
		ContentEncoding: aws.ToString(output.ContentEncoding),
	}, nil
}
