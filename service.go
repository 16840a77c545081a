package postbox

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// MaxTitleLength is the maximum post title length in characters.
	MaxTitleLength = 200
	// MaxImageKeyLength is the maximum image key length in bytes.
	MaxImageKeyLength = 512
	// DefaultListLimit is used when a ListQuery carries no limit.
	DefaultListLimit = 20
)

// KeyValidator checks that an image key belongs to the upload namespace.
type KeyValidator interface {
	ValidateKey(key string) error
}

// PostServiceConfig holds optional behaviour for PostService.
type PostServiceConfig struct {
	// Keys validates image_key on create and update. Nil skips the check.
	Keys KeyValidator
	// SanitizeHTML strips unsafe markup from titles and content before storing.
	SanitizeHTML bool
}

type PostService struct {
	repo   PostRepo
	keys   KeyValidator
	policy *bluemonday.Policy
}

func NewPostService(repo PostRepo, cfg PostServiceConfig) *PostService {
	s := &PostService{
		repo: repo,
		keys: cfg.Keys,
	}
	if cfg.SanitizeHTML {
		s.policy = bluemonday.UGCPolicy()
	}
	return s
}

// Create validates and stores a new post.
//
// Error types returned:
//   - ErrInvalidInput: Title too long or image key too long
//   - ErrInvalidKey: Image key outside the upload namespace
//   - context.Canceled or context.DeadlineExceeded: Context was cancelled
//   - Wrapped repository errors
func (s *PostService) Create(ctx context.Context, in PostInput) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	if err := s.checkTitle(in.Title); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	if err := s.checkImageKey(in.ImageKey); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	in.Title = s.sanitize(in.Title)
	in.Content = s.sanitize(in.Content)

	post, err := s.repo.Create(ctx, in)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, fmt.Errorf("get post: %w", err)
	}

	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, fmt.Errorf("get post %d: %w", id, err)
	}

	return post, nil
}

// List returns posts newest first. A zero limit means DefaultListLimit.
func (s *PostService) List(ctx context.Context, q ListQuery) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if q.Skip < 0 {
		return nil, fmt.Errorf("list posts: %w: skip cannot be negative", ErrInvalidInput)
	}

	if q.Limit < 0 {
		return nil, fmt.Errorf("list posts: %w: limit cannot be negative", ErrInvalidInput)
	}

	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}

	posts, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// Update applies a partial update. An empty patch returns the stored post
// without touching updated_at.
func (s *PostService) Update(ctx context.Context, id int64, patch PostPatch) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, fmt.Errorf("update post: %w", err)
	}

	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	if patch.Title != nil {
		if err := s.checkTitle(*patch.Title); err != nil {
			return Post{}, fmt.Errorf("update post %d: %w", id, err)
		}
		title := s.sanitize(*patch.Title)
		patch.Title = &title
	}

	if patch.Content != nil {
		content := s.sanitize(*patch.Content)
		patch.Content = &content
	}

	if err := s.checkImageKey(patch.ImageKey); err != nil {
		return Post{}, fmt.Errorf("update post %d: %w", id, err)
	}

	post, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Post{}, fmt.Errorf("update post %d: %w", id, err)
	}

	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}

	return nil
}

func (s *PostService) checkTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxTitleLength)
	}
	return nil
}

func (s *PostService) checkImageKey(key *string) error {
	if key == nil {
		return nil
	}

	if len(*key) > MaxImageKeyLength {
		return fmt.Errorf("%w: image_key exceeds %d bytes", ErrInvalidInput, MaxImageKeyLength)
	}

	if s.keys != nil {
		return s.keys.ValidateKey(*key)
	}

	return nil
}

func (s *PostService) sanitize(v string) string {
	if s.policy == nil {
		return v
	}
	return s.policy.Sanitize(v)
}
