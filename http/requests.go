package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/postbox"
)

const maxBodyBytes = 1 << 20

type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// CreatePostRequest uses pointers so that a present but empty field is
// distinguishable from a missing one.
type CreatePostRequest struct {
	Title    *string `json:"title" validate:"required,max=200"`
	Content  *string `json:"content" validate:"required"`
	ImageKey *string `json:"image_key" validate:"omitempty,max=512"`
}

func (r CreatePostRequest) Input() postbox.PostInput {
	return postbox.PostInput{
		Title:    *r.Title,
		Content:  *r.Content,
		ImageKey: r.ImageKey,
	}
}

type UpdatePostRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content"`
	ImageKey *string `json:"image_key" validate:"omitempty,max=512"`
}

func (r UpdatePostRequest) Patch() postbox.PostPatch {
	return postbox.PostPatch{
		Title:    r.Title,
		Content:  r.Content,
		ImageKey: r.ImageKey,
	}
}

type PresignPutRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

type PresignGetResponse struct {
	URL string `json:"url"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// errInvalidBody marks a request body that is not a single JSON object.
var errInvalidBody = errors.New("invalid request body")

// validationError carries the short, client-safe message for a failed field.
type validationError struct {
	detail string
}

func (e *validationError) Error() string { return e.detail }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(r *http.Request, w http.ResponseWriter, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidBody
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &validationError{detail: fieldMessage(verrs[0])}
		}
		return errInvalidBody
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// writeDecodeError maps decodeRequest failures to 400 responses.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, verr.detail)
		return
	}
	WriteError(w, http.StatusBadRequest, "Invalid request body")
}

// parseListQuery reads skip and limit, clamping limit to [1, maxPageSize].
func parseListQuery(r *http.Request, maxPageSize int) (postbox.ListQuery, error) {
	q := postbox.ListQuery{Skip: 0, Limit: postbox.DefaultListLimit}

	if s := r.URL.Query().Get("skip"); s != "" {
		skip, err := strconv.Atoi(s)
		if err != nil || skip < 0 {
			return q, errors.New("skip must be a non-negative integer")
		}
		q.Skip = skip
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		q.Limit = limit
	}

	q.Limit = max(1, min(maxPageSize, q.Limit))

	return q, nil
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
