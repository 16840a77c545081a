package clientcli

import "time"

// Post mirrors a post as returned by the server.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  *string   `json:"image_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is the authenticated account as reported by /auth/me.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions configures a list operation. Zero values leave the
// server defaults in place.
type ListOptions struct {
	Skip  int
	Limit int
}

// CreatePostOptions holds the fields of a new post.
type CreatePostOptions struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageKey *string `json:"image_key,omitempty"`
}

// UpdatePostOptions holds a partial update. Nil fields are not sent.
type UpdatePostOptions struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageKey *string `json:"image_key,omitempty"`
}

// IsEmpty reports whether no field is set.
func (o UpdatePostOptions) IsEmpty() bool {
	return o.Title == nil && o.Content == nil && o.ImageKey == nil
}

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	ContentType string // optional, auto-detect if empty
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath   string `json:"local_path"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// UploadTicket is the presigned PUT returned by the server.
type UploadTicket struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Method      string `json:"method"`
	ContentType string `json:"content_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type presignPutRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type presignGetResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
