// Package http provides the JSON HTTP API for postbox.
//
// Routes are mounted under a configurable base path (default "/api"):
//
//	GET    /health
//	POST   /auth/login
//	GET    /auth/me
//	GET    /posts?skip=&limit=
//	POST   /posts
//	GET    /posts/{id}
//	PUT    /posts/{id}
//	DELETE /posts/{id}
//	POST   /uploads/presign-put
//	GET    /uploads/presign-get?key=
//
// A Prometheus scrape endpoint is served at /metrics, outside the base path,
// when HandlerConfig.MetricsHandler is set.
//
// # Authentication
//
// Read and write routes are guarded separately by AuthMiddleware, which
// expects an "Authorization: Bearer <token>" header. Pass nil for public
// access:
//
//	handlerCfg := http.HandlerConfig{
//	    BasePath:  "/api",
//	    ReadAuth:  nil,           // public read
//	    WriteAuth: authenticator, // bearer token required
//	}
//	handler := http.NewHandler(&handlerCfg, posts, authenticator, uploads)
//	http.ListenAndServe(":8000", handler.Router())
//
// /auth/me always requires a token.
//
// # Errors
//
// Every error response is a JSON object with a single "detail" field.
// Domain errors from the postbox package are mapped to status codes by
// HandleError; anything unrecognised becomes a 500 and is logged, never
// echoed to the client.
package http
