package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/postbox/config"
)

// clearLegacyEnv keeps the host environment from leaking into default assertions.
func clearLegacyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_URL", "JWT_SECRET", "JWT_EXPIRES_MIN", "AWS_REGION",
		"S3_BUCKET", "S3_PREFIX", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearLegacyEnv(t)

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 100, cfg.Server.MaxPageSize)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "postbox.db", cfg.Database.DSN)
	assert.Equal(t, "posts", cfg.Database.Tables.Posts)
	assert.Equal(t, "users", cfg.Database.Tables.Users)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, "uploads/", cfg.Storage.Prefix)
	assert.Equal(t, 300, cfg.Storage.PresignTTL)
	assert.Equal(t, "public", cfg.Auth.Read)
	assert.Equal(t, "private", cfg.Auth.Write)
	assert.Empty(t, cfg.Auth.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.JWT.TTL())
	assert.False(t, cfg.Posts.SanitizeHTML)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearLegacyEnv(t)

	path := writeConfig(t, `
server:
  port: 8080
  base_path: /v1
  max_page_size: 50
database:
  type: postgres
  dsn: postgres://localhost/test
  tables:
    posts: blog_posts
    users: blog_users
  auto_migrate: false
storage:
  backend: stowry
  endpoint: http://localhost:5708
  access_key: AKIATEST
  secret_key: secret
  prefix: images/
  presign_ttl: 60
auth:
  read: private
  write: private
  jwt:
    secret: s3cr3t
    expires_minutes: 15
posts:
  sanitize_html: true
log:
  level: debug
  format: json
metrics:
  enabled: true
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/v1", cfg.Server.BasePath)
	assert.Equal(t, 50, cfg.Server.MaxPageSize)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.Equal(t, "blog_posts", cfg.Database.Tables.Posts)
	assert.Equal(t, "blog_users", cfg.Database.Tables.Users)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "stowry", cfg.Storage.Backend)
	assert.Equal(t, "http://localhost:5708", cfg.Storage.Endpoint)
	assert.Equal(t, "AKIATEST", cfg.Storage.AccessKey)
	assert.Equal(t, "secret", cfg.Storage.SecretKey)
	assert.Equal(t, "images/", cfg.Storage.Prefix)
	assert.Equal(t, time.Minute, cfg.Storage.TTL())
	assert.Equal(t, "private", cfg.Auth.Read)
	assert.Equal(t, "private", cfg.Auth.Write)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL())
	assert.True(t, cfg.Posts.SanitizeHTML)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	clearLegacyEnv(t)

	base := writeConfig(t, `
server:
  port: 8000
auth:
  read: public
  write: private
database:
  type: sqlite
`)
	override := writeConfig(t, `
server:
  port: 9000
auth:
  read: private
`)

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "private", cfg.Auth.Read)

	// Preserved values from base
	assert.Equal(t, "private", cfg.Auth.Write)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid port", "server:\n  port: 99999\n"},
		{"base path without slash", "server:\n  base_path: api\n"},
		{"invalid auth mode", "auth:\n  read: sometimes\n"},
		{"invalid database type", "database:\n  type: mysql\n"},
		{"invalid storage backend", "storage:\n  backend: gcs\n"},
		{"invalid log format", "log:\n  format: xml\n"},
		{"invalid table name", "database:\n  tables:\n    posts: Posts-Table\n"},
		{"duplicate table names", "database:\n  tables:\n    posts: items\n    users: items\n"},
		{"non positive token lifetime", "auth:\n  jwt:\n    expires_minutes: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLegacyEnv(t)

			_, err := config.Load([]string{writeConfig(t, tt.content)}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	clearLegacyEnv(t)

	path := writeConfig(t, `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
    - https://app.example.com
  allowed_methods:
    - GET
    - PUT
  allowed_headers:
    - Content-Type
  max_age: 600
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "PUT"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("POSTBOX_SERVER_PORT", "9090")
	t.Setenv("POSTBOX_DATABASE_TYPE", "postgres")
	t.Setenv("POSTBOX_AUTH_READ", "private")
	t.Setenv("POSTBOX_AUTH_JWT_SECRET", "from-env")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "private", cfg.Auth.Read)
	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
}

func TestLoad_LegacyEnvironmentVariables(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/blog")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("JWT_EXPIRES_MIN", "30")
	t.Setenv("AWS_REGION", "ap-northeast-2")
	t.Setenv("S3_BUCKET", "blog-images")
	t.Setenv("S3_PREFIX", "media/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db/blog", cfg.Database.DSN)
	assert.Equal(t, "legacy-secret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL())
	assert.Equal(t, "ap-northeast-2", cfg.Storage.Region)
	assert.Equal(t, "blog-images", cfg.Storage.Bucket)
	assert.Equal(t, "media/", cfg.Storage.Prefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PrefixedEnvBeatsLegacy(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("POSTBOX_AUTH_JWT_SECRET", "prefixed")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "prefixed", cfg.Auth.JWT.Secret)
}

func TestLoad_Flags(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("POSTBOX_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8000, "")
	flags.String("db-dsn", "postbox.db", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--db-dsn", "other.db"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "other.db", cfg.Database.DSN)
	// unchanged flags do not override
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := config.FromContext(t.Context())
	assert.Error(t, err)
}
