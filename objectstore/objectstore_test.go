package objectstore_test

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	stowry "github.com/sagarc03/stowry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/objectstore"
)

func TestConfig_TTL(t *testing.T) {
	assert.Equal(t, postbox.DefaultPresignTTL, objectstore.Config{}.TTL())
	assert.Equal(t, postbox.DefaultPresignTTL, objectstore.Config{PresignTTL: -5}.TTL())
	assert.Equal(t, 90*time.Second, objectstore.Config{PresignTTL: 90}.TTL())
}

func TestNew_UnsupportedBackend(t *testing.T) {
	_, err := objectstore.New(context.Background(), objectstore.Config{Backend: "gcs", Prefix: "uploads/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestNew_S3RequiresBucket(t *testing.T) {
	_, err := objectstore.New(context.Background(), objectstore.Config{Backend: "s3", Region: "us-east-1", Prefix: "uploads/"})
	require.Error(t, err)
}

func newS3(t *testing.T) postbox.Presigner {
	t.Helper()
	p, err := objectstore.New(context.Background(), objectstore.Config{
		Backend:      "s3",
		Region:       "us-east-1",
		Bucket:       "blog-images",
		Prefix:       "uploads/",
		Endpoint:     "http://localhost:9000",
		AccessKey:    "AKIDEXAMPLE",
		SecretKey:    "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return p
}

func TestS3Presigner_PresignPut(t *testing.T) {
	p := newS3(t)

	raw, err := p.PresignPut(context.Background(), "uploads/abc.png", "image/png", 300*time.Second)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/blog-images/uploads/abc.png", u.Path)

	q := u.Query()
	assert.Equal(t, "300", q.Get("X-Amz-Expires"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Contains(t, q.Get("X-Amz-Credential"), "AKIDEXAMPLE/")
	assert.Contains(t, q.Get("X-Amz-SignedHeaders"), "content-type")
}

func TestS3Presigner_PresignGet(t *testing.T) {
	p := newS3(t)

	raw, err := p.PresignGet(context.Background(), "uploads/abc.png", time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/blog-images/uploads/abc.png", u.Path)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewStowryPresigner_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  objectstore.Config
	}{
		{"missing endpoint", objectstore.Config{Backend: "stowry", AccessKey: "a", SecretKey: "s"}},
		{"missing access key", objectstore.Config{Backend: "stowry", Endpoint: "http://localhost:5708", SecretKey: "s"}},
		{"missing secret key", objectstore.Config{Backend: "stowry", Endpoint: "http://localhost:5708", AccessKey: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := objectstore.NewStowryPresigner(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestStowryPresigner_SignatureVerifies(t *testing.T) {
	const (
		accessKey = "STOWRYTEST"
		secretKey = "testsecret123"
	)

	p, err := objectstore.NewStowryPresigner(objectstore.Config{
		Backend:   "stowry",
		Endpoint:  "http://localhost:5708/",
		AccessKey: accessKey,
		SecretKey: secretKey,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		method  string
		presign func() (string, error)
	}{
		{"put", "PUT", func() (string, error) {
			return p.PresignPut(context.Background(), "uploads/abc.png", "image/png", 300*time.Second)
		}},
		{"get", "GET", func() (string, error) {
			return p.PresignGet(context.Background(), "uploads/abc.png", 300*time.Second)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.presign()
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "localhost:5708", u.Host)
			assert.Equal(t, "/uploads/abc.png", u.Path)

			q := u.Query()
			assert.Equal(t, accessKey, q.Get("X-Stowry-Credential"))
			assert.Equal(t, "300", q.Get("X-Stowry-Expires"))

			date, err := strconv.ParseInt(q.Get("X-Stowry-Date"), 10, 64)
			require.NoError(t, err)

			want := stowry.Sign(secretKey, tt.method, "/uploads/abc.png", date, 300)
			assert.Equal(t, want, q.Get("X-Stowry-Signature"))
		})
	}
}

func TestStowryPresigner_RejectsTTLOutOfRange(t *testing.T) {
	p, err := objectstore.NewStowryPresigner(objectstore.Config{
		Backend:   "stowry",
		Endpoint:  "http://localhost:5708",
		AccessKey: "a",
		SecretKey: "s",
	})
	require.NoError(t, err)

	_, err = p.PresignPut(context.Background(), "uploads/a.png", "image/png", 0)
	assert.Error(t, err)

	_, err = p.PresignGet(context.Background(), "uploads/a.png", 8*24*time.Hour)
	assert.Error(t, err)
}

func TestStowryPresigner_CanceledContext(t *testing.T) {
	p, err := objectstore.NewStowryPresigner(objectstore.Config{
		Backend:   "stowry",
		Endpoint:  "http://localhost:5708",
		AccessKey: "a",
		SecretKey: "s",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.PresignPut(ctx, "uploads/a.png", "image/png", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
