package user

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned on login failure. Unknown usernames and
	// wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a registered account. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID        int64
	Username  string
	Password  string
	CreatedAt time.Time
}

// Repository defines persistence for user accounts.
type Repository interface {
	// Create persists the user and fills generated fields (ID, CreatedAt).
	// Returns ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
