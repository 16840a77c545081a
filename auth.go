package postbox

import (
	"context"
	"errors"
	"fmt"
)

// Authenticator checks email/password pairs and bearer tokens against the
// credential store.
type Authenticator struct {
	users     UserRepo
	tokens    *TokenIssuer
	dummyHash string
}

func NewAuthenticator(users UserRepo, tokens *TokenIssuer) (*Authenticator, error) {
	// Compared against when the email is unknown so both failure paths pay for bcrypt.
	dummy, err := HashPassword("postbox-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("new authenticator: %w", err)
	}

	return &Authenticator{
		users:     users,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

// Authenticate exchanges credentials for an access token. An unknown email
// and a wrong password both fail with ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (AccessToken, error) {
	if err := ctx.Err(); err != nil {
		return AccessToken{}, fmt.Errorf("authenticate: %w", err)
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return AccessToken{}, fmt.Errorf("authenticate: %w", err)
		}
		CheckPassword(a.dummyHash, password)
		return AccessToken{}, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return AccessToken{}, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	token, err := a.tokens.Issue(user.Email)
	if err != nil {
		return AccessToken{}, fmt.Errorf("authenticate: %w", err)
	}

	return AccessToken{AccessToken: token, TokenType: "bearer"}, nil
}

// Identify verifies a bearer token and loads the user it names. A token for
// a user that no longer exists is an invalid token.
func (a *Authenticator) Identify(ctx context.Context, token string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("identify: %w", err)
	}

	email, err := a.tokens.Verify(token)
	if err != nil {
		return User{}, fmt.Errorf("identify: %w", err)
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("identify: %w: unknown subject", ErrInvalidToken)
		}
		return User{}, fmt.Errorf("identify: %w", err)
	}

	return user, nil
}
