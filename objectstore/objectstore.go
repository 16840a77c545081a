package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/sagarc03/postbox"
)

// Config holds object store connection and upload namespace settings.
type Config struct {
	// Backend is "s3" or "stowry"
	Backend string `mapstructure:"backend" validate:"required,oneof=s3 stowry"`
	// Region is the S3 signing region
	Region string `mapstructure:"region"`
	// Bucket is the S3 bucket receiving uploads
	Bucket string `mapstructure:"bucket"`
	// Prefix namespaces every generated key, e.g. "uploads/"
	Prefix string `mapstructure:"prefix" validate:"required"`
	// Endpoint overrides the S3 endpoint, and is the server URL for stowry
	Endpoint string `mapstructure:"endpoint"`
	// AccessKey and SecretKey are static credentials. For s3 they are
	// optional and the SDK default chain is used when empty.
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// UsePathStyle addresses buckets as endpoint/bucket/key
	UsePathStyle bool `mapstructure:"use_path_style"`
	// PresignTTL is the presigned URL lifetime in seconds
	PresignTTL int `mapstructure:"presign_ttl" validate:"min=0"`
}

// TTL returns the configured presign lifetime, or the default.
func (c Config) TTL() time.Duration {
	if c.PresignTTL <= 0 {
		return postbox.DefaultPresignTTL
	}
	return time.Duration(c.PresignTTL) * time.Second
}

// New builds the Presigner selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (postbox.Presigner, error) {
	switch cfg.Backend {
	case "s3":
		p, err := NewS3Presigner(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "stowry":
		p, err := NewStowryPresigner(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
