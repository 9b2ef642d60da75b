package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

func (h *LinkHandler) Expired(ctx context.Context, _ *struct{}) (*ExpiredResponse, error) {
	links, err := h.service.Expired(ctx)
	if err != nil {
		h.logger.Error("expired listing failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list expired links")
	}

	resp := &ExpiredResponse{}
	resp.Body.Links = linkBodies(links, h.baseURL)

	return resp, nil
}

func (h *LinkHandler) Sweep(ctx context.Context, _ *struct{}) (*SweepResponse, error) {
	removed, err := h.service.Sweep(ctx)
	if err != nil {
		h.logger.Error("sweep failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to sweep expired links")
	}

	resp := &SweepResponse{}
	resp.Body.Removed = removed

	return resp, nil
}
