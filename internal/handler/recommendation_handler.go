package handler

import (
	"errors"
	"io"
	"net/http"

	"recgames/backend/internal/catalog"
	"recgames/backend/internal/metrics"
	"recgames/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FilterResponse struct {
	Success bool                     `json:"success" example:"true"`
	Games   []catalog.GameProjection `json:"games"`
	Count   int                      `json:"count"`
}

// FilterErrorResponse is returned instead of FilterResponse when the filter fails.
type FilterErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
}

// FilterGames godoc
// @Summary      Filter games by tags
// @Description  Games carrying every tag in include_tags and none in exclude_tags, ordered by rating. Unknown tag names are ignored.
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        input body catalog.TagFilter true "Tag filter"
// @Success      200  {object}  FilterResponse
// @Failure      400  {object}  FilterErrorResponse
// @Failure      500  {object}  FilterErrorResponse
// @Router       /recommendations/filter [post]
func (h *Handler) FilterGames(c *gin.Context) {
	ctx := c.Request.Context()
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.FilterRequestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, FilterErrorResponse{Error: "failed to read request body"})
		return
	}

	filter, err := h.catalog.ParseTagFilter(payload)
	if err != nil {
		metrics.FilterRequestsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, FilterErrorResponse{Error: err.Error()})
		return
	}

	games, err := h.catalog.FilterGames(ctx, filter)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidFilterRequest) {
			metrics.FilterRequestsTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, FilterErrorResponse{Error: err.Error()})
			return
		}
		metrics.FilterRequestsTotal.WithLabelValues("error").Inc()
		logger.Error(ctx).Err(err).Msg("tag filter failed")
		c.JSON(http.StatusInternalServerError, FilterErrorResponse{Error: "Internal server error"})
		return
	}

	metrics.FilterRequestsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, FilterResponse{Success: true, Games: games, Count: len(games)})
}
