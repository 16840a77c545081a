package http

import "errors"

// ErrMissingToken is returned when a protected route receives no bearer token.
var ErrMissingToken = errors.New("missing token")
