package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/postbox"
)

// Provisioner adds and removes users through a postbox.UserRepo.
type Provisioner struct {
	users    postbox.UserRepo
	validate *validator.Validate
}

// ImportResult lists the emails created and skipped by Import.
type ImportResult struct {
	Created []string
	Skipped []string
}

func New(users postbox.UserRepo) *Provisioner {
	return &Provisioner{
		users:    users,
		validate: validator.New(),
	}
}

// Add hashes password and stores a new user. It returns postbox.ErrConflict
// if the email is taken.
func (p *Provisioner) Add(ctx context.Context, email, password string) (postbox.User, error) {
	if err := p.validate.Var(email, "required,email,max=255"); err != nil {
		return postbox.User{}, fmt.Errorf("add user: %w: email %q", postbox.ErrInvalidInput, email)
	}

	hash, err := postbox.HashPassword(password)
	if err != nil {
		return postbox.User{}, fmt.Errorf("add user: %w", err)
	}

	user, err := p.users.Create(ctx, email, hash)
	if err != nil {
		return postbox.User{}, fmt.Errorf("add user: %w", err)
	}

	return user, nil
}

// Import adds every credential in order. With skipExisting, emails that
// already exist are recorded as skipped; otherwise the first conflict stops
// the import. Users created before a failure are kept.
func (p *Provisioner) Import(ctx context.Context, creds []Credential, skipExisting bool) (ImportResult, error) {
	var result ImportResult

	for _, c := range creds {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import users: %w", err)
		}

		_, err := p.Add(ctx, c.Email, c.Password)
		switch {
		case err == nil:
			result.Created = append(result.Created, c.Email)
		case skipExisting && errors.Is(err, postbox.ErrConflict):
			result.Skipped = append(result.Skipped, c.Email)
		default:
			return result, fmt.Errorf("import users: %w", err)
		}
	}

	return result, nil
}

// Remove deletes the user with email. It returns postbox.ErrNotFound if
// there is none.
func (p *Provisioner) Remove(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("remove user: %w", postbox.ErrInvalidInput)
	}

	if err := p.users.Delete(ctx, email); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}

	return nil
}
