package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

type feedEntryResponse struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	ActorID   string    `json:"actor_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type feedResponse struct {
	Data []feedEntryResponse `json:"data"`
}

// FeedHandler serves the tenant activity feed.
type FeedHandler struct {
	service ports.ActivityService
}

func NewFeedHandler(service ports.ActivityService) *FeedHandler {
	return &FeedHandler{service: service}
}

// List handles GET /v1/feed. Visibility follows the caller's resolved scope,
// the same predicate used for site listings.
//
// @Summary      List recent activity visible to the caller
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max entries (default 50, cap 200)"
// @Success      200    {object}  feedResponse
// @Router       /v1/feed [get]
func (h *FeedHandler) List(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	entries, err := h.service.ListFeed(c.Request().Context(), actor, limit)
	if err != nil {
		return err
	}

	items := make([]feedEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toFeedEntryResponse(e))
	}
	return c.JSON(http.StatusOK, feedResponse{Data: items})
}

func toFeedEntryResponse(e *domain.ActivityEvent) feedEntryResponse {
	return feedEntryResponse{
		ID:        e.ID,
		SiteID:    e.SiteID,
		ActorID:   e.ActorID,
		Kind:      string(e.Kind),
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}
