package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/config"
	postboxhttp "github.com/sagarc03/postbox/http"
	"github.com/sagarc03/postbox/metrics"
	"github.com/sagarc03/postbox/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the postbox HTTP API server.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8000, "HTTP server port (env: POSTBOX_SERVER_PORT)")
	serveCmd.Flags().String("base-path", "/api", "route prefix for the API (env: POSTBOX_SERVER_BASE_PATH)")
	serveCmd.Flags().String("storage-backend", "s3", "object store backend: s3, stowry (env: POSTBOX_STORAGE_BACKEND)")
	serveCmd.Flags().String("bucket", "", "S3 bucket for uploads (env: POSTBOX_STORAGE_BUCKET, S3_BUCKET)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret is required (env: POSTBOX_AUTH_JWT_SECRET or JWT_SECRET)")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := openDatabase(ctx, cfg.Database, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	presigner, err := objectstore.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("create presigner: %w", err)
	}

	uploads, err := postbox.NewUploadManager(presigner, postbox.UploadConfig{
		Prefix: cfg.Storage.Prefix,
		TTL:    cfg.Storage.TTL(),
	})
	if err != nil {
		return fmt.Errorf("create upload manager: %w", err)
	}

	posts := postbox.NewPostService(db.PostRepo(), postbox.PostServiceConfig{
		Keys:         uploads,
		SanitizeHTML: cfg.Posts.SanitizeHTML,
	})

	tokens, err := postbox.NewTokenIssuer([]byte(cfg.Auth.JWT.Secret), cfg.Auth.JWT.TTL())
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	authenticator, err := postbox.NewAuthenticator(db.UserRepo(), tokens)
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}

	var readAuth, writeAuth postboxhttp.Identifier
	if cfg.Auth.Read == "private" {
		readAuth = authenticator
	}
	if cfg.Auth.Write == "private" {
		writeAuth = authenticator
	}

	handlerConfig := postboxhttp.HandlerConfig{
		BasePath:    cfg.Server.BasePath,
		ReadAuth:    readAuth,
		WriteAuth:   writeAuth,
		CORS:        cfg.CORS,
		MaxPageSize: cfg.Server.MaxPageSize,
		Logger:      slog.Default(),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		handlerConfig.Metrics = metrics.NewCollector(reg)
		handlerConfig.MetricsHandler = metrics.Handler(reg)
	}

	handler := postboxhttp.NewHandler(&handlerConfig, posts, authenticator, uploads)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting server",
		"addr", addr,
		"base_path", cfg.Server.BasePath,
		"database", cfg.Database.Type,
		"storage", cfg.Storage.Backend,
		"read", cfg.Auth.Read,
		"write", cfg.Auth.Write,
		"metrics", cfg.Metrics.Enabled,
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return serveUntilShutdown(ctx, server, ln, shutdownTimeout)
}

const shutdownTimeout = 30 * time.Second

// serveUntilShutdown serves on ln until ctx is done or SIGINT/SIGTERM
// arrives. It returns only after in-flight requests have drained or the
// timeout has passed, so callers may release shared resources afterwards.
func serveUntilShutdown(ctx context.Context, server *http.Server, ln net.Listener, timeout time.Duration) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	serveDone := make(chan struct{})
	shutdownDone := make(chan error, 1)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		case <-serveDone:
			shutdownDone <- nil
			return
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		shutdownDone <- server.Shutdown(shutdownCtx)
	}()

	serveErr := server.Serve(ln)
	close(serveDone)
	shutdownErr := <-shutdownDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", serveErr)
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
