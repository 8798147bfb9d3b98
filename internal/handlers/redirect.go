package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/messaging"
	"go.uber.org/zap"
)

// RedirectHandler serves the public short-code redirect.
type RedirectHandler struct {
	svc            *link.Service
	clicks         link.ClickRecorder
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	logger         *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(
	svc *link.Service,
	clicks link.ClickRecorder,
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		svc:            svc,
		clicks:         clicks,
		publishVisited: publishVisited,
		logger:         logger,
	}
}

// Redirect resolves a short code and issues the redirect. Unknown and
// unpublished codes are 404; a wrong or missing password on a gated link is
// 401 and records no click. Every successful redirect records exactly one
// click before the response.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	l, err := h.svc.Resolve(ctx, req.ShortCode, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("not found")
		case errors.Is(err, link.ErrPasswordRequired):
			return nil, huma.Error401Unauthorized("password required")
		}

		h.logger.Error("failed to resolve short code", zap.String("shortCode", req.ShortCode), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	meta := RequestMetaFromContext(ctx)

	if _, err := h.clicks.Record(ctx, l.ID, meta.UserAgent, meta.ClientIP); err != nil {
		h.logger.Error("failed to record click", zap.Int64("linkId", l.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to record click")
	}

	destination := l.Destination()

	event := &analytics.LinkVisitedEvent{
		LinkID:      l.ID,
		ShortCode:   l.ShortCode,
		Destination: destination,
		VisitedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		Referrer:    meta.Referrer,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish link visited event",
			zap.String("shortCode", l.ShortCode),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: destination,
	}, nil
}
