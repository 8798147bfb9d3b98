package link

import "context"

// Repository defines persistence for link records.
//
// Stores enforce short-code uniqueness and return ErrCodeTaken from Create
// on a collision; ownership checks belong to the Service layer.
type Repository interface {
	// Create persists the link and fills its generated fields (ID, CreatedAt).
	Create(ctx context.Context, l *Link) error
	GetByID(ctx context.Context, id int64) (*Link, error)
	GetByShortCode(ctx context.Context, code string) (*Link, error)
	GetByCustomDomain(ctx context.Context, domain string) (*Link, error)
	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, userID int64) ([]*Link, error)
	// ListPublished returns all published links annotated with the owning username.
	ListPublished(ctx context.Context) ([]*PublicLink, error)
	// Update applies the non-nil fields and returns the updated link,
	// or ErrNotFound if the id does not exist.
	Update(ctx context.Context, id int64, fields Update) (*Link, error)
	// Delete removes the link and its clicks. Deleting an absent id returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// Update holds a partial link update; nil fields are left unchanged.
type Update struct {
	OriginalURL  *string
	CustomDomain *string
	Title        *string
	Category     *string
	Password     *string
	IsPublished  *bool
}

// ClickRecorder appends immutable click events.
type ClickRecorder interface {
	Record(ctx context.Context, linkID int64, userAgent, ipAddress string) (*Click, error)
}
