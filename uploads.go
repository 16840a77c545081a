package postbox

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPresignTTL is the lifetime of presigned URLs when none is given.
const DefaultPresignTTL = 300 * time.Second

// allowedContentTypes is the upload allow-list.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Presigner produces time-limited signed URLs for a single object key.
// Implementations talk to the object store backend (S3, Stowry).
type Presigner interface {
	// PresignPut returns a URL that accepts one PUT of key with the given
	// Content-Type until ttl elapses.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// PresignGet returns a URL that serves key until ttl elapses.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// UploadConfig holds the namespace and URL lifetime for uploads.
type UploadConfig struct {
	Prefix string
	TTL    time.Duration
}

// UploadManager generates namespaced object keys and hands out presigned
// URLs for them. It never sees object bytes.
type UploadManager struct {
	presigner Presigner
	prefix    string
	ttl       time.Duration
}

func NewUploadManager(presigner Presigner, cfg UploadConfig) (*UploadManager, error) {
	if presigner == nil {
		return nil, errors.New("new upload manager: presigner is required")
	}

	if cfg.Prefix == "" {
		return nil, errors.New("new upload manager: prefix cannot be empty")
	}

	if strings.HasPrefix(cfg.Prefix, "/") || strings.Contains(cfg.Prefix, "..") {
		return nil, fmt.Errorf("new upload manager: invalid prefix: %s", cfg.Prefix)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	return &UploadManager{
		presigner: presigner,
		prefix:    cfg.Prefix,
		ttl:       ttl,
	}, nil
}

// Prefix returns the key namespace.
func (m *UploadManager) Prefix() string {
	return m.prefix
}

// ValidateContentType fails with ErrUnsupportedType unless ct is an allowed image type.
func (m *UploadManager) ValidateContentType(ct string) error {
	if _, ok := allowedContentTypes[ct]; !ok {
		return fmt.Errorf("validate content type %q: %w", ct, ErrUnsupportedType)
	}
	return nil
}

// NewKey returns prefix + 32 hex chars + the lower-cased extension of
// filename. Extensions that are not 1-16 ASCII letters or digits are dropped.
func (m *UploadManager) NewKey(filename string) string {
	id := uuid.New()
	key := m.prefix + hex.EncodeToString(id[:])

	if ext := cleanExtension(filename); ext != "" {
		key += "." + ext
	}

	return key
}

// ValidateKey fails with ErrInvalidKey unless key lies inside the upload
// namespace and is a well-formed object key.
func (m *UploadManager) ValidateKey(key string) error {
	if !strings.HasPrefix(key, m.prefix) || len(key) == len(m.prefix) {
		return fmt.Errorf("validate key %q: %w: outside namespace", key, ErrInvalidKey)
	}

	if strings.Contains(key, "..") || !IsValidKey(key) {
		return fmt.Errorf("validate key %q: %w", key, ErrInvalidKey)
	}

	return nil
}

// PresignPut delegates to the Presigner. A ttl <= 0 uses the configured default.
func (m *UploadManager) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}

	u, err := m.presigner.PresignPut(ctx, key, contentType, ttl)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}

	return u, nil
}

// PresignGet delegates to the Presigner. A ttl <= 0 uses the configured default.
func (m *UploadManager) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}

	u, err := m.presigner.PresignGet(ctx, key, ttl)
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return u, nil
}

// PreparePut validates the content type, allocates a fresh key and presigns
// a PUT for it.
func (m *UploadManager) PreparePut(ctx context.Context, filename, contentType string) (UploadTicket, error) {
	if err := ctx.Err(); err != nil {
		return UploadTicket{}, fmt.Errorf("prepare put: %w", err)
	}

	if err := m.ValidateContentType(contentType); err != nil {
		return UploadTicket{}, fmt.Errorf("prepare put: %w", err)
	}

	key := m.NewKey(filename)

	u, err := m.PresignPut(ctx, key, contentType, 0)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("prepare put: %w", err)
	}

	return UploadTicket{
		Key:         key,
		URL:         u,
		Method:      http.MethodPut,
		ContentType: contentType,
	}, nil
}

// PrepareGet validates key and presigns a GET for it.
func (m *UploadManager) PrepareGet(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("prepare get: %w", err)
	}

	if err := m.ValidateKey(key); err != nil {
		return "", fmt.Errorf("prepare get: %w", err)
	}

	u, err := m.PresignGet(ctx, key, 0)
	if err != nil {
		return "", fmt.Errorf("prepare get: %w", err)
	}

	return u, nil
}

func cleanExtension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" || len(ext) > 16 {
		return ""
	}

	ext = strings.ToLower(ext)
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}

	return ext
}
