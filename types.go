package postbox

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  *string   `json:"image_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput holds the fields of a new post.
type PostInput struct {
	Title    string
	Content  string
	ImageKey *string
}

// PostPatch holds a partial post update. Nil fields keep their stored value.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageKey *string
}

// IsEmpty reports whether the patch changes no field.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.ImageKey == nil
}

type ListQuery struct {
	Skip  int
	Limit int
}

// User is a provisioned account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UploadTicket is everything a client needs to PUT an object directly to the store.
type UploadTicket struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Method      string `json:"method"`
	ContentType string `json:"content_type"`
}

// Tables holds configurable table names for post and user storage.
// This allows several deployments to share one database.
type Tables struct {
	Posts string `mapstructure:"posts"`
	Users string `mapstructure:"users"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set, valid and distinct.
func (t Tables) Validate() error {
	names := []struct {
		kind, name string
	}{
		{"posts", t.Posts},
		{"users", t.Users},
	}

	for _, n := range names {
		if n.name == "" {
			return fmt.Errorf("validate tables: %s table name cannot be empty", n.kind)
		}
		if !IsValidTableName(n.name) {
			return fmt.Errorf("validate tables: invalid %s table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", n.kind, n.name)
		}
	}

	if t.Posts == t.Users {
		return errors.New("validate tables: posts and users tables must differ")
	}

	return nil
}
