package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/metrics"
)

// DefaultMaxPageSize caps the limit query parameter when HandlerConfig leaves it unset.
const DefaultMaxPageSize = 100

type PostService interface {
	Create(ctx context.Context, in postbox.PostInput) (postbox.Post, error)
	Get(ctx context.Context, id int64) (postbox.Post, error)
	List(ctx context.Context, q postbox.ListQuery) ([]postbox.Post, error)
	Update(ctx context.Context, id int64, patch postbox.PostPatch) (postbox.Post, error)
	Delete(ctx context.Context, id int64) error
}

type AuthService interface {
	Identifier
	Authenticate(ctx context.Context, email, password string) (postbox.AccessToken, error)
}

type UploadService interface {
	PreparePut(ctx context.Context, filename, contentType string) (postbox.UploadTicket, error)
	PrepareGet(ctx context.Context, key string) (string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// BasePath prefixes every API route, e.g. "/api"
	BasePath string
	// ReadAuth guards read routes; nil means public
	ReadAuth Identifier
	// WriteAuth guards mutating routes; nil means public
	WriteAuth   Identifier
	CORS        CORSConfig
	MaxPageSize int
	// Metrics records request metrics when non-nil
	Metrics metrics.Recorder
	// MetricsHandler is served at /metrics, outside BasePath, when non-nil
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Handler provides HTTP handlers for the blog API.
type Handler struct {
	config   HandlerConfig
	posts    PostService
	auth     AuthService
	uploads  UploadService
	validate *validator.Validate
}

// NewHandler creates a new Handler with the given configuration and services.
func NewHandler(config *HandlerConfig, posts PostService, auth AuthService, uploads UploadService) *Handler {
	cfg := *config
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")

	return &Handler{
		config:   cfg,
		posts:    posts,
		auth:     auth,
		uploads:  uploads,
		validate: newValidator(),
	}
}

// Router returns an http.Handler with all routes mounted under BasePath.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.config.Logger))
	// Metrics wraps recovery so recovered panics are counted as 500s.
	if h.config.Metrics != nil {
		r.Use(MetricsMiddleware(h.config.Metrics))
	}
	r.Use(RecoveryMiddleware)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if h.config.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.config.MetricsHandler)
	}

	if h.config.BasePath == "/" {
		h.routes(r)
	} else {
		r.Route(h.config.BasePath, h.routes)
	}

	return r
}

func (h *Handler) routes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.auth))
		r.Get("/auth/me", h.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.ReadAuth))
		r.Get("/posts", h.handleListPosts)
		r.Get("/posts/{id}", h.handleGetPost)
		r.Get("/uploads/presign-get", h.handlePresignGet)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.WriteAuth))
		r.Post("/posts", h.handleCreatePost)
		r.Put("/posts/{id}", h.handleUpdatePost)
		r.Delete("/posts/{id}", h.handleDeletePost)
		r.Post("/uploads/presign-put", h.handlePresignPut)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, HealthResponse{OK: true})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeRequest(r, w, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, postbox.ErrInvalidCredentials) {
			h.recordLogin(metrics.LoginFailure)
		}
		HandleError(w, err)
		return
	}

	h.recordLogin(metrics.LoginSuccess)
	_ = WriteJSON(w, http.StatusOK, token)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		HandleError(w, ErrMissingToken)
		return
	}

	_ = WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r, h.config.MaxPageSize)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := h.posts.List(r.Context(), query)
	if err != nil {
		HandleError(w, err)
		return
	}
	if posts == nil {
		posts = []postbox.Post{}
	}

	_ = WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		handlePostError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := h.decodeRequest(r, w, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), req.Input())
	if err != nil {
		handlePostError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := h.decodeRequest(r, w, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, req.Patch())
	if err != nil {
		handlePostError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		handlePostError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePresignPut(w http.ResponseWriter, r *http.Request) {
	var req PresignPutRequest
	if err := h.decodeRequest(r, w, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	ticket, err := h.uploads.PreparePut(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		HandleError(w, err)
		return
	}

	h.recordPresign(http.MethodPut)
	_ = WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) handlePresignGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		WriteError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := h.uploads.PrepareGet(r.Context(), key)
	if err != nil {
		HandleError(w, err)
		return
	}

	h.recordPresign(http.MethodGet)
	_ = WriteJSON(w, http.StatusOK, PresignGetResponse{URL: url})
}

func (h *Handler) recordLogin(result string) {
	if h.config.Metrics != nil {
		h.config.Metrics.RecordLogin(result)
	}
}

func (h *Handler) recordPresign(method string) {
	if h.config.Metrics != nil {
		h.config.Metrics.RecordPresign(method)
	}
}
