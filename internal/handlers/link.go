package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/messaging"
	"go.uber.org/zap"
)

// leaderboardSize is the number of entries the leaderboard endpoint returns.
const leaderboardSize = 10

// LinkHandler handles link CRUD, analytics, and the leaderboard.
type LinkHandler struct {
	svc            *link.Service
	aggregator     analytics.Aggregator
	baseURL        string
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	svc *link.Service,
	aggregator analytics.Aggregator,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		svc:            svc,
		aggregator:     aggregator,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		logger:         logger,
	}
}

// Create creates a link for the authenticated caller.
func (h *LinkHandler) Create(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	published := true
	if req.Body.IsPublished != nil {
		published = *req.Body.IsPublished
	}

	l, err := h.svc.Create(ctx, identity.UserID, link.CreateParams{
		OriginalURL:  req.Body.OriginalURL,
		CustomDomain: req.Body.CustomDomain,
		Title:        req.Body.Title,
		Category:     req.Body.Category,
		Password:     req.Body.Password,
		IsPublished:  published,
	})
	if err != nil {
		if errors.Is(err, link.ErrInvalidURL) {
			return nil, huma.Error422UnprocessableEntity("originalUrl must be an absolute URL")
		}

		h.logger.Error("failed to create link", zap.Int64("userId", identity.UserID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		LinkID:      l.ID,
		UserID:      l.UserID,
		ShortCode:   l.ShortCode,
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("shortCode", l.ShortCode),
			zap.Error(err),
		)
	}

	return &CreateLinkResponse{Body: linkBody(l, h.baseURL)}, nil
}

// List returns the caller's links, newest first.
func (h *LinkHandler) List(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	links, err := h.svc.ListByOwner(ctx, identity.UserID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Int64("userId", identity.UserID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{Body: make([]LinkBody, 0, len(links))}
	for _, l := range links {
		resp.Body = append(resp.Body, linkBody(l, h.baseURL))
	}

	return resp, nil
}

// ListPublic returns every published link with its owner's username.
func (h *LinkHandler) ListPublic(ctx context.Context, _ *struct{}) (*ListPublicLinksResponse, error) {
	links, err := h.svc.ListPublished(ctx)
	if err != nil {
		h.logger.Error("failed to list public links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListPublicLinksResponse{Body: make([]PublicLinkBody, 0, len(links))}
	for _, pl := range links {
		resp.Body = append(resp.Body, PublicLinkBody{
			LinkBody: linkBody(&pl.Link, h.baseURL),
			Username: pl.Username,
		})
	}

	return resp, nil
}

// Get fetches one caller-owned link. Links owned by others are reported as
// not found.
func (h *LinkHandler) Get(ctx context.Context, req *LinkIDRequest) (*GetLinkResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	l, err := h.svc.GetOwned(ctx, identity.UserID, req.ID)
	if err != nil {
		return nil, h.linkError(err, req.ID)
	}

	return &GetLinkResponse{Body: linkBody(l, h.baseURL)}, nil
}

// Update partially updates a caller-owned link.
func (h *LinkHandler) Update(ctx context.Context, req *UpdateLinkRequest) (*UpdateLinkResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	l, err := h.svc.UpdateOwned(ctx, identity.UserID, req.ID, link.Update{
		OriginalURL:  req.Body.OriginalURL,
		CustomDomain: req.Body.CustomDomain,
		Title:        req.Body.Title,
		Category:     req.Body.Category,
		Password:     req.Body.Password,
		IsPublished:  req.Body.IsPublished,
	})
	if err != nil {
		return nil, h.linkError(err, req.ID)
	}

	return &UpdateLinkResponse{Body: linkBody(l, h.baseURL)}, nil
}

// Delete removes a caller-owned link and its clicks.
func (h *LinkHandler) Delete(ctx context.Context, req *LinkIDRequest) (*DeleteLinkResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if err := h.svc.DeleteOwned(ctx, identity.UserID, req.ID); err != nil {
		return nil, h.linkError(err, req.ID)
	}

	return &DeleteLinkResponse{}, nil
}

// Analytics returns per-day click counts for a caller-owned link.
func (h *LinkHandler) Analytics(ctx context.Context, req *LinkIDRequest) (*AnalyticsResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if _, err := h.svc.GetOwned(ctx, identity.UserID, req.ID); err != nil {
		return nil, h.linkError(err, req.ID)
	}

	counts, err := h.aggregator.PerDayCounts(ctx, req.ID)
	if err != nil {
		h.logger.Error("failed to aggregate clicks", zap.Int64("linkId", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load analytics")
	}

	if counts == nil {
		counts = []analytics.DayCount{}
	}

	return &AnalyticsResponse{Body: counts}, nil
}

// Leaderboard returns the top users by total clicks.
func (h *LinkHandler) Leaderboard(ctx context.Context, _ *struct{}) (*LeaderboardResponse, error) {
	entries, err := h.aggregator.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		h.logger.Error("failed to compute leaderboard", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load leaderboard")
	}

	if entries == nil {
		entries = []analytics.LeaderboardEntry{}
	}

	return &LeaderboardResponse{Body: entries}, nil
}

func (h *LinkHandler) linkError(err error, id int64) error {
	if errors.Is(err, link.ErrNotFound) {
		return huma.Error404NotFound("link not found")
	}

	if errors.Is(err, link.ErrInvalidURL) {
		return huma.Error422UnprocessableEntity("originalUrl must be an absolute URL")
	}

	h.logger.Error("link operation failed", zap.Int64("linkId", id), zap.Error(err))

	return huma.Error500InternalServerError("link operation failed")
}
