package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/postbox/database"
	postboxhttp "github.com/sagarc03/postbox/http"
	"github.com/sagarc03/postbox/objectstore"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "POSTBOX"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for postbox.
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`
	Database database.Config        `mapstructure:"database"`
	Storage  objectstore.Config     `mapstructure:"storage"`
	Auth     AuthConfig             `mapstructure:"auth"`
	Posts    PostsConfig            `mapstructure:"posts"`
	CORS     postboxhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig              `mapstructure:"log"`
	Metrics  MetricsConfig          `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	BasePath    string `mapstructure:"base_path" validate:"required,startswith=/"`
	MaxPageSize int    `mapstructure:"max_page_size" validate:"min=1,max=1000"`
}

// AuthConfig holds access policy and token settings.
type AuthConfig struct {
	Read  string    `mapstructure:"read" validate:"required,oneof=public private"`
	Write string    `mapstructure:"write" validate:"required,oneof=public private"`
	JWT   JWTConfig `mapstructure:"jwt"`
}

// JWTConfig holds the access token signing settings. Secret is checked by
// the serve command rather than here so tooling that never issues tokens
// can load the same file.
type JWTConfig struct {
	Secret         string `mapstructure:"secret"`
	ExpiresMinutes int    `mapstructure:"expires_minutes" validate:"min=1"`
}

// TTL returns the token lifetime.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiresMinutes) * time.Minute
}

type PostsConfig struct {
	SanitizeHTML bool `mapstructure:"sanitize_html"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"port":            "server.port",
	"base-path":       "server.base_path",
	"storage-backend": "storage.backend",
	"bucket":          "storage.bucket",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// legacyEnv lists unprefixed environment variables honoured for
// compatibility with existing deployments. The prefixed name wins when both
// are set.
var legacyEnv = map[string]string{
	"database.dsn":             "DATABASE_URL",
	"auth.jwt.secret":          "JWT_SECRET",
	"auth.jwt.expires_minutes": "JWT_EXPIRES_MIN",
	"storage.region":           "AWS_REGION",
	"storage.bucket":           "S3_BUCKET",
	"storage.prefix":           "S3_PREFIX",
	"cors.allowed_origins":     "CORS_ALLOWED_ORIGINS",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

func bindLegacyEnv(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_")
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("server.max_page_size", 100)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "postbox.db")
	v.SetDefault("database.tables.posts", "posts")
	v.SetDefault("database.tables.users", "users")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("storage.backend", "s3")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "uploads/")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.presign_ttl", 300) // seconds

	v.SetDefault("auth.read", "public")
	v.SetDefault("auth.write", "private")
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.expires_minutes", 60)

	v.SetDefault("posts.sanitize_html", false)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", false)
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
