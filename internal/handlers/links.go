package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/analytics"
	"github.com/serroba/shortlink/internal/link"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// LinkHandler exposes link creation, resolution, and management operations.
type LinkHandler struct {
	service         *link.Service
	baseURL         string
	publishCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent]
	logger          *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *link.Service,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:         service,
		baseURL:         baseURL,
		publishCreated:  publishCreated,
		publishAccessed: publishAccessed,
		logger:          logger,
	}
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	if !validURL(req.Body.URL) {
		return nil, huma.Error400BadRequest("invalid url: must be absolute http or https")
	}

	params := link.ShortenParams{
		OriginalURL: req.Body.URL,
		ExpiresAt:   req.Body.ExpiresAt,
	}

	if req.Body.CustomAlias != "" {
		alias := req.Body.CustomAlias
		params.CustomAlias = &alias
	}

	if principal, ok := PrincipalFromContext(ctx); ok {
		owner := principal
		params.Owner = &owner
	}

	l, err := h.service.Shorten(ctx, params)
	if err != nil {
		if errors.Is(err, link.ErrAliasTaken) {
			return nil, huma.Error409Conflict("custom alias already taken")
		}

		h.logger.Error("shorten failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create short link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:        l.ShortCode,
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}
	if l.CustomAlias != nil {
		event.CustomAlias = *l.CustomAlias
	}

	if l.OwnerID != nil {
		event.OwnerID = l.OwnerID.String()
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{Body: linkBody(l, h.baseURL)}
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	destination, err := h.service.Resolve(ctx, link.Code(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("short link not found")
		case errors.Is(err, link.ErrExpired):
			return nil, huma.Error410Gone("link expired")
		default:
			h.logger.Error("resolve failed", zap.String("code", req.Code), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to resolve link")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkAccessedEvent{
		Code:       req.Code,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishAccessed(event); err != nil {
		h.logger.Error("failed to publish link accessed event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = destination

	return resp, nil
}

func (h *LinkHandler) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	l, err := h.service.Stats(ctx, link.Code(req.Code))
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("stats lookup failed", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load link stats")
	}

	resp := &StatsResponse{}
	resp.Body.LinkBody = linkBody(l, h.baseURL)
	resp.Body.AccessCount = l.AccessCount
	resp.Body.LastAccessed = l.LastAccessed

	return resp, nil
}

func (h *LinkHandler) Update(ctx context.Context, req *UpdateLinkRequest) (*UpdateLinkResponse, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	if !validURL(req.Body.URL) {
		return nil, huma.Error400BadRequest("invalid url: must be absolute http or https")
	}

	l, err := h.service.UpdateURL(ctx, link.Code(req.Code), req.Body.URL, principal)
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("link not found")
		case errors.Is(err, link.ErrForbidden):
			return nil, huma.Error403Forbidden("not your link")
		default:
			h.logger.Error("update failed", zap.String("code", req.Code), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to update link")
		}
	}

	return &UpdateLinkResponse{Body: linkBody(l, h.baseURL)}, nil
}

func (h *LinkHandler) Delete(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	err := h.service.Delete(ctx, link.Code(req.Code), principal)
	if err != nil {
		switch {
		case errors.Is(err, link.ErrNotFound):
			return nil, huma.Error404NotFound("link not found")
		case errors.Is(err, link.ErrForbidden):
			return nil, huma.Error403Forbidden("not your link")
		default:
			h.logger.Error("delete failed", zap.String("code", req.Code), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to delete link")
		}
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Message = "link deleted"

	return resp, nil
}

func (h *LinkHandler) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	links, err := h.service.SearchByURL(ctx, req.OriginalURL)
	if err != nil {
		h.logger.Error("search failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to search links")
	}

	resp := &SearchResponse{}
	resp.Body.Links = linkBodies(links, h.baseURL)

	return resp, nil
}

// validURL accepts absolute http(s) URLs with a host.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
