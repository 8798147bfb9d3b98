package link

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// CodeGenerator generates URL-safe short codes.
type CodeGenerator func() string

// maxCodeAttempts bounds the collision retry loop so a degenerate generator
// cannot spin forever against the uniqueness constraint.
const maxCodeAttempts = 5

// CreateParams holds caller-supplied fields for a new link.
type CreateParams struct {
	OriginalURL  string
	CustomDomain string
	Title        string
	Category     string
	Password     string
	IsPublished  bool
}

// Service implements link operations on top of a Repository, scoping reads
// and writes to the owning user. Ownership violations are reported as
// ErrNotFound so non-owners cannot probe for existence.
type Service struct {
	links        Repository
	generateCode CodeGenerator
	logger       *zap.Logger
}

// NewService creates a link service.
func NewService(links Repository, generator CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		links:        links,
		generateCode: generator,
		logger:       logger,
	}
}

// Create persists a new link for ownerID, assigning a fresh short code.
// Short-code collisions are retried with a new code and never surfaced.
func (s *Service) Create(ctx context.Context, ownerID int64, params CreateParams) (*Link, error) {
	if err := validateURL(params.OriginalURL); err != nil {
		return nil, err
	}

	l := &Link{
		UserID:       ownerID,
		OriginalURL:  params.OriginalURL,
		CustomDomain: params.CustomDomain,
		Title:        params.Title,
		Category:     params.Category,
		Password:     params.Password,
		IsPublished:  params.IsPublished,
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		l.ShortCode = s.generateCode()

		err := s.links.Create(ctx, l)
		if err == nil {
			return l, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}

		s.logger.Warn("short code collision, retrying",
			zap.String("code", l.ShortCode),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, fmt.Errorf("exhausted %d short code attempts", maxCodeAttempts)
}

// GetOwned returns the link only if it exists and belongs to ownerID.
func (s *Service) GetOwned(ctx context.Context, ownerID, id int64) (*Link, error) {
	l, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.UserID != ownerID {
		return nil, ErrNotFound
	}

	return l, nil
}

// ListByOwner returns ownerID's links, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*Link, error) {
	return s.links.ListByOwner(ctx, ownerID)
}

// ListPublished returns every published link with its owner's username.
func (s *Service) ListPublished(ctx context.Context) ([]*PublicLink, error) {
	return s.links.ListPublished(ctx)
}

// UpdateOwned applies a partial update to a caller-owned link.
func (s *Service) UpdateOwned(ctx context.Context, ownerID, id int64, fields Update) (*Link, error) {
	if fields.OriginalURL != nil {
		if err := validateURL(*fields.OriginalURL); err != nil {
			return nil, err
		}
	}

	if _, err := s.GetOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	return s.links.Update(ctx, id, fields)
}

// DeleteOwned removes a caller-owned link and its clicks.
func (s *Service) DeleteOwned(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetOwned(ctx, ownerID, id); err != nil {
		return err
	}

	return s.links.Delete(ctx, id)
}

// Resolve runs the public redirect lookup for a short code: unknown and
// unpublished codes are ErrNotFound, a wrong or missing password on a gated
// link is ErrPasswordRequired. On success it returns the link; the caller
// records the click and issues the redirect.
func (s *Service) Resolve(ctx context.Context, code, password string) (*Link, error) {
	l, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !l.IsPublished {
		return nil, ErrNotFound
	}

	if l.HasPassword() && password != l.Password {
		return nil, ErrPasswordRequired
	}

	return l, nil
}

// validateURL rejects destinations that are not absolute URLs. The schema
// layer's format check is laxer than this, so relative URLs land here.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q needs a scheme and host", ErrInvalidURL, raw)
	}

	return nil
}
