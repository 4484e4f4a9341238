package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends understood by the server.
const (
	BackendGCS   = "gcs"
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Config is built once at startup and never changes afterwards.
type Config struct {
	ServerPort      string
	Bucket          string
	StorageBackend  string
	IndexObject     string
	MaskFetchErrors bool

	LogLevel  string
	LogFormat string

	GCSEndpoint string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioRegion    string

	S3Region       string
	S3Endpoint     string
	S3UsePathStyle bool
}

// Keys as they appear in the environment and in config files.
const (
	KeyServerPort      = "server_port"
	KeyBucket          = "cloud_storage_bucket"
	KeyStorageBackend  = "storage_backend"
	KeyIndexObject     = "index_object"
	KeyMaskFetchErrors = "mask_fetch_errors"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyGCSEndpoint     = "gcs_endpoint"
	KeyMinioEndpoint   = "minio_endpoint"
	KeyMinioAccessKey  = "minio_access_key"
	KeyMinioSecretKey  = "minio_secret_key"
	KeyMinioUseSSL     = "minio_use_ssl"
	KeyMinioRegion     = "minio_region"
	KeyS3Region        = "s3_region"
	KeyS3Endpoint      = "s3_endpoint"
	KeyS3UsePathStyle  = "s3_use_path_style"
)

var ErrMissingBucket = errors.New("CLOUD_STORAGE_BUCKET must be set")

// NewViper returns a viper instance with defaults applied and environment
// lookup enabled, e.g. CLOUD_STORAGE_BUCKET for KeyBucket.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every known key so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerPort, "8080")
	v.SetDefault(KeyBucket, "")
	v.SetDefault(KeyStorageBackend, BackendGCS)
	v.SetDefault(KeyIndexObject, "index.html")
	v.SetDefault(KeyMaskFetchErrors, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyGCSEndpoint, "")
	v.SetDefault(KeyMinioEndpoint, "localhost:9000")
	v.SetDefault(KeyMinioAccessKey, "minioadmin")
	v.SetDefault(KeyMinioSecretKey, "minioadmin")
	v.SetDefault(KeyMinioUseSSL, false)
	v.SetDefault(KeyMinioRegion, "")
	v.SetDefault(KeyS3Region, "")
	v.SetDefault(KeyS3Endpoint, "")
	v.SetDefault(KeyS3UsePathStyle, false)
}

// Load reads the configuration out of v, then normalizes and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:      v.GetString(KeyServerPort),
		Bucket:          v.GetString(KeyBucket),
		StorageBackend:  v.GetString(KeyStorageBackend),
		IndexObject:     v.GetString(KeyIndexObject),
		MaskFetchErrors: v.GetBool(KeyMaskFetchErrors),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		GCSEndpoint:     v.GetString(KeyGCSEndpoint),
		MinioEndpoint:   v.GetString(KeyMinioEndpoint),
		MinioAccessKey:  v.GetString(KeyMinioAccessKey),
		MinioSecretKey:  v.GetString(KeyMinioSecretKey),
		MinioUseSSL:     v.GetBool(KeyMinioUseSSL),
		MinioRegion:     v.GetString(KeyMinioRegion),
		S3Region:        v.GetString(KeyS3Region),
		S3Endpoint:      v.GetString(KeyS3Endpoint),
		S3UsePathStyle:  v.GetBool(KeyS3UsePathStyle),
	}

	cfg.ApplyDefaults()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = BackendGCS
	}
	if c.IndexObject == "" {
		c.IndexObject = "index.html"
	}
}

func (c *Config) Normalize() {
	c.Bucket = strings.TrimSpace(c.Bucket)
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.IndexObject = strings.TrimLeft(c.IndexObject, "/")
	c.ServerPort = strings.TrimPrefix(c.ServerPort, ":")
}

func (c *Config) Validate() error {
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	switch c.StorageBackend {
	case BackendGCS, BackendMinio, BackendS3:
	default:
		return fmt.Errorf("storage backend must be %s, %s, or %s, got %q",
			BackendGCS, BackendMinio, BackendS3, c.StorageBackend)
	}
	if c.IndexObject == "" {
		return errors.New("index object must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
