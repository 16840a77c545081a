package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	stowry "github.com/sagarc03/stowry-go"
)

// maxStowryExpires is the longest lifetime a Stowry server accepts (7 days).
const maxStowryExpires = 7 * 24 * time.Hour

// StowryPresigner presigns URLs for a Stowry server with its native
// signing scheme. Stowry signatures do not bind the Content-Type.
type StowryPresigner struct {
	client *stowry.Client
}

func NewStowryPresigner(cfg Config) (*StowryPresigner, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("new stowry presigner: endpoint is required")
	}

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("new stowry presigner: access_key and secret_key are required")
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	return &StowryPresigner{
		client: stowry.NewClient(endpoint, cfg.AccessKey, cfg.SecretKey),
	}, nil
}

func (p *StowryPresigner) PresignPut(ctx context.Context, key, _ string, ttl time.Duration) (string, error) {
	expires, err := stowryExpires(ttl)
	if err != nil {
		return "", fmt.Errorf("stowry presign put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("stowry presign put: %w", err)
	}

	return p.client.PresignPut("/"+key, expires), nil
}

func (p *StowryPresigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	expires, err := stowryExpires(ttl)
	if err != nil {
		return "", fmt.Errorf("stowry presign get: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("stowry presign get: %w", err)
	}

	return p.client.PresignGet("/"+key, expires), nil
}

func stowryExpires(ttl time.Duration) (int, error) {
	if ttl < time.Second || ttl > maxStowryExpires {
		return 0, fmt.Errorf("ttl %s outside 1s..%s", ttl, maxStowryExpires)
	}
	return int(ttl / time.Second), nil
}
