package link

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a link does not exist or is not visible to the caller.
	ErrNotFound = errors.New("link not found")
	// ErrCodeTaken is returned by stores when a short code collides with an existing one.
	ErrCodeTaken = errors.New("short code already taken")
	// ErrPasswordRequired is returned when a gated link is resolved without the correct password.
	ErrPasswordRequired = errors.New("link password required")
	// ErrInvalidURL is returned when a destination is not an absolute URL.
	ErrInvalidURL = errors.New("invalid destination url")
)

// Link represents a shortened URL owned by a user.
type Link struct {
	ID           int64
	UserID       int64
	OriginalURL  string
	ShortCode    string
	CustomDomain string // optional override destination; takes precedence over OriginalURL
	Title        string
	Category     string
	Password     string // share secret gating the redirect; empty means no gate
	IsPublished  bool
	CreatedAt    time.Time
}

// HasPassword reports whether the redirect is password-gated.
func (l *Link) HasPassword() bool {
	return l.Password != ""
}

// Destination returns the redirect target, preferring the custom domain when set.
func (l *Link) Destination() string {
	if l.CustomDomain != "" {
		return l.CustomDomain
	}

	return l.OriginalURL
}

// PublicLink is a published link annotated with its owner's username.
type PublicLink struct {
	Link
	Username string
}

// Click is one recorded visit against a link. Clicks are append-only.
type Click struct {
	ID        int64
	LinkID    int64
	ClickedAt time.Time
	UserAgent string
	IPAddress string
}
