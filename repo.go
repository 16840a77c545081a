package postbox

import "context"

// PostRepo defines the interface for post persistence.
// Implementations must be safe for concurrent use.
//
// All methods accept a context for cancellation and timeout control.
type PostRepo interface {
	// Create inserts a new post and assigns its id and timestamps.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - in: Title, content and optional image key
	//
	// Returns:
	//   - Post: The stored post including id, created_at and updated_at
	//   - error: Any database error
	Create(ctx context.Context, in PostInput) (Post, error)

	// Get retrieves a post by id.
	//
	// Returns:
	//   - Post: The post if found
	//   - error: ErrNotFound if id doesn't exist, or other database errors
	Get(ctx context.Context, id int64) (Post, error)

	// List returns posts ordered by id descending, skipping q.Skip rows
	// and returning at most q.Limit rows. An empty result is an empty slice.
	List(ctx context.Context, q ListQuery) ([]Post, error)

	// Update overwrites the non-nil fields of patch and refreshes updated_at
	// in a single statement.
	//
	// Returns:
	//   - Post: The post after the update
	//   - error: ErrNotFound if id doesn't exist, or other database errors
	Update(ctx context.Context, id int64, patch PostPatch) (Post, error)

	// Delete removes a post permanently.
	//
	// Returns:
	//   - error: ErrNotFound if id doesn't exist, or other database errors
	Delete(ctx context.Context, id int64) error
}

// UserRepo defines the interface for the credential store.
type UserRepo interface {
	// GetByEmail looks up a user by exact, case-sensitive email.
	// Returns ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Create stores a new user with an already hashed password.
	// Returns ErrConflict if the email is taken.
	Create(ctx context.Context, email, passwordHash string) (User, error)

	// Delete removes a user by email. Returns ErrNotFound if absent.
	Delete(ctx context.Context, email string) error
}
