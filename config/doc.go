// Package config provides configuration loading and validation for postbox.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (POSTBOX_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with POSTBOX_ prefix:
//   - server.port → POSTBOX_SERVER_PORT
//   - database.dsn → POSTBOX_DATABASE_DSN
//   - auth.jwt.secret → POSTBOX_AUTH_JWT_SECRET
//
// A few unprefixed names are also read: DATABASE_URL, JWT_SECRET,
// JWT_EXPIRES_MIN, AWS_REGION, S3_BUCKET, S3_PREFIX and CORS_ALLOWED_ORIGINS
// (comma separated).
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Auth read/write must be public or private
//   - Storage backend must be s3 or stowry
//   - Log level must be debug, info, warn, or error; format text or json
//
// Table names are checked with postbox.Tables.Validate.
package config
