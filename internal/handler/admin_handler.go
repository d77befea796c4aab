package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"recgames/backend/internal/catalog"
	"recgames/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type RecomputeResponse struct {
	Processed int64 `json:"processed" example:"12"`
}

type VisibilityInput struct {
	IDs      []uint `json:"ids" binding:"required,min=1"`
	IsPublic *bool  `json:"is_public" binding:"required"`
}

type RecountInput struct {
	UserIDs []uint `json:"user_ids"`
}

type FeedbackResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	IsProcessed bool      `json:"is_processed"`
}

func newFeedbackResponse(f models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		Name:        f.Name,
		Email:       f.Email,
		Message:     f.Message,
		CreatedAt:   f.CreatedAt,
		IsProcessed: f.IsProcessed,
	}
}

type RecommendationInput struct {
	UserID     uint           `json:"user_id" binding:"required"`
	GameID     uint           `json:"game_id" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

type RecommendationResponse struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	GameID     uint           `json:"game_id"`
	Parameters map[string]any `json:"parameters"`
	CreatedAt  time.Time      `json:"created_at"`
}

type RoleInput struct {
	Role string `json:"role" binding:"required" example:"admin"`
}

// endregion

// RecomputeAllOrders godoc
// @Summary      Renumber every collection
// @Description  Rewrites the order of the games in every collection to 1..n, keeping their relative order.
// @Tags         admin-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} RecomputeResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/collections/recompute-order [post]
func (h *Handler) RecomputeAllOrders(c *gin.Context) {
	n, err := h.catalog.RecomputeAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeResponse{Processed: int64(n)})
}

// RecomputeOrder godoc
// @Summary      Renumber one collection
// @Tags         admin-collections
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Collection ID"
// @Success      200 {object} RecomputeResponse
// @Failure      404 {object} ErrorResponse "Collection not found"
// @Router       /admin/collections/{id}/recompute-order [post]
func (h *Handler) RecomputeOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.catalog.RecomputeOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeResponse{Processed: int64(n)})
}

// RecomputeLikesCounts godoc
// @Summary      Recount collection likes
// @Tags         admin-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} RecomputeResponse
// @Router       /admin/collections/recompute-likes [post]
func (h *Handler) RecomputeLikesCounts(c *gin.Context) {
	n, err := h.catalog.RecomputeLikesCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeResponse{Processed: n})
}

// SetCollectionsVisibility godoc
// @Summary      Publish or hide collections
// @Tags         admin-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body VisibilityInput true "Collections"
// @Success      200 {object} RecomputeResponse
// @Failure      400 {object} ErrorResponse
// @Router       /admin/collections/visibility [post]
func (h *Handler) SetCollectionsVisibility(c *gin.Context) {
	var input VisibilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.catalog.SetCollectionsVisibility(c.Request.Context(), input.IDs, *input.IsPublic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeResponse{Processed: n})
}

// RecomputeCollectionsCount godoc
// @Summary      Recount owned collections
// @Description  Rewrites collections_count of the given users, or of every profile when the body is empty.
// @Tags         admin-profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RecountInput false "Users"
// @Success      200 {object} RecomputeResponse
// @Router       /admin/profiles/recompute-collections [post]
func (h *Handler) RecomputeCollectionsCount(c *gin.Context) {
	var input RecountInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.catalog.RecomputeCollectionsCount(c.Request.Context(), input.UserIDs...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecomputeResponse{Processed: int64(n)})
}

// ListFeedback godoc
// @Summary      List contact messages
// @Tags         admin-feedback
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[FeedbackResponse]
// @Router       /admin/feedback [get]
func (h *Handler) ListFeedback(c *gin.Context) {
	page, limit := catalog.NormalizePage(queryInt(c, "page", 1), queryInt(c, "limit", 10))
	items, total, err := h.catalog.ListFeedback(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	data := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		data = append(data, newFeedbackResponse(f))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}

// MarkFeedbackProcessed godoc
// @Summary      Mark a contact message as handled
// @Tags         admin-feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /admin/feedback/{id}/processed [post]
func (h *Handler) MarkFeedbackProcessed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.MarkFeedbackProcessed(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Feedback processed"})
}

// RecordRecommendation godoc
// @Summary      Record a recommendation
// @Description  Stores which game was recommended to a user and with which parameters.
// @Tags         admin-recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RecommendationInput true "Recommendation"
// @Success      201 {object} RecommendationResponse
// @Failure      404 {object} ErrorResponse "User or game not found"
// @Router       /admin/recommendations [post]
func (h *Handler) RecordRecommendation(c *gin.Context) {
	var input RecommendationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.catalog.RecordRecommendation(c.Request.Context(), input.UserID, input.GameID, input.Parameters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RecommendationResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		GameID:     rec.GameID,
		Parameters: rec.Parameters,
		CreatedAt:  rec.CreatedAt,
	})
}

// SetUserRole godoc
// @Summary      Change a user's role
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "User ID"
// @Param        input body RoleInput true "Role"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "Unknown role"
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /admin/users/{id}/role [put]
func (h *Handler) SetUserRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.SetRole(c.Request.Context(), id, input.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Role updated"})
}

// SubmitFeedback godoc
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        input body catalog.FeedbackInput true "Message"
// @Success      201 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /contact [post]
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var input catalog.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.catalog.SubmitFeedback(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Thank you for your message"})
}
