package handler

import (
	"io"
	"net/http"
	"time"

	"recgames/backend/internal/auth"
	"recgames/backend/internal/catalog"
	"recgames/backend/internal/metrics"
	"recgames/backend/internal/models"
	"recgames/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CollectionResponse is a collection with its live like count.
type CollectionResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	LikesCount  int64     `json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCollectionResponse(c models.Collection, likes int64) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		LikesCount:  likes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCollectionResponses(stats []catalog.CollectionStats) []CollectionResponse {
	out := make([]CollectionResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, newCollectionResponse(s.Collection, s.Likes))
	}
	return out
}

type CollectionGameResponse struct {
	Order   int          `json:"order"`
	AddedAt time.Time    `json:"added_at"`
	Game    GameResponse `json:"game"`
}

type CollectionDetailResponse struct {
	Collection CollectionResponse       `json:"collection"`
	Games      []CollectionGameResponse `json:"games"`
	IsOwner    bool                     `json:"is_owner"`
	IsLiked    bool                     `json:"is_liked"`
}

type CollectionsResponse struct {
	Mine    []CollectionResponse `json:"mine"`
	Popular []CollectionResponse `json:"popular"`
}

type AddGameInput struct {
	GameID uint `json:"game_id" binding:"required" example:"1"`
}

type LikeResponse struct {
	Status     catalog.ToggleStatus `json:"status" example:"added"`
	LikesCount int64                `json:"likes_count" example:"3"`
}

// endregion

// GetCollections godoc
// @Summary      List collections
// @Description  The viewer's own collections and the public collections of other users, ordered by likes.
// @Tags         collections
// @Produce      json
// @Param        q   query     string  false  "Title substring"
// @Success      200 {object}  CollectionsResponse
// @Router       /collections [get]
func (h *Handler) GetCollections(c *gin.Context) {
	page, err := h.catalog.ListCollections(c.Request.Context(), auth.UserID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CollectionsResponse{
		Mine:    newCollectionResponses(page.Mine),
		Popular: newCollectionResponses(page.Popular),
	})
}

// CreateCollection godoc
// @Summary      Create a collection
// @Description  Creates a collection owned by the current user. Collections are public unless is_public is false.
// @Tags         collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body catalog.CollectionInput true "Collection Info"
// @Success      201  {object}  CollectionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /collections [post]
func (h *Handler) CreateCollection(c *gin.Context) {
	var input catalog.CollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.catalog.CreateCollection(c.Request.Context(), auth.UserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCollectionResponse(*collection, 0))
}

// GetCollectionByID godoc
// @Summary      Get a collection
// @Description  Retrieves a collection with its games in order. Private collections are only visible to their owner.
// @Tags         collections
// @Produce      json
// @Param        id   path      int  true  "Collection ID"
// @Success      200  {object}  CollectionDetailResponse
// @Failure      403  {object}  ErrorResponse "Collection is private"
// @Failure      404  {object}  ErrorResponse "Collection not found"
// @Router       /collections/{id} [get]
func (h *Handler) GetCollectionByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.catalog.CollectionDetail(c.Request.Context(), id, auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := CollectionDetailResponse{
		Collection: newCollectionResponse(view.Collection, view.Likes),
		Games:      make([]CollectionGameResponse, 0, len(view.Games)),
		IsOwner:    view.IsOwner,
		IsLiked:    view.IsLiked,
	}
	for _, m := range view.Games {
		response.Games = append(response.Games, CollectionGameResponse{
			Order:   m.Order,
			AddedAt: m.AddedAt,
			Game:    newGameResponse(m.Game, nil),
		})
	}
	c.JSON(http.StatusOK, response)
}

// UpdateCollection godoc
// @Summary      Update a collection
// @Description  Changes title, description and visibility. Omitting is_public keeps the current visibility.
// @Tags         collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Collection ID"
// @Param        input body      catalog.CollectionInput true  "Collection Info"
// @Success      200   {object}  CollectionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Not the owner"
// @Failure      404   {object}  ErrorResponse "Collection not found"
// @Router       /collections/{id} [put]
func (h *Handler) UpdateCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input catalog.CollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.catalog.UpdateCollection(c.Request.Context(), auth.UserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCollectionResponse(updated.Collection, updated.Likes))
}

// DeleteCollection godoc
// @Summary      Delete a collection
// @Tags         collections
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Collection ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Not the owner"
// @Failure      404 {object} ErrorResponse "Collection not found"
// @Router       /collections/{id} [delete]
func (h *Handler) DeleteCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCollection(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Collection deleted"})
}

// AddGameToCollection godoc
// @Summary      Add a game to a collection
// @Description  Appends the game after the last one in the collection.
// @Tags         collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Collection ID"
// @Param        input body      AddGameInput  true  "Game"
// @Success      201   {object}  CollectionGameResponse
// @Failure      403   {object}  ErrorResponse "Not the owner"
// @Failure      404   {object}  ErrorResponse "Collection or game not found"
// @Failure      409   {object}  ErrorResponse "Game is already in the collection"
// @Router       /collections/{id}/games [post]
func (h *Handler) AddGameToCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input AddGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	membership, err := h.catalog.AddGameToCollection(ctx, auth.UserID(c), id, input.GameID)
	if err != nil {
		respondError(c, err)
		return
	}
	game, err := h.catalog.GetGame(ctx, input.GameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CollectionGameResponse{
		Order:   membership.Order,
		AddedAt: membership.AddedAt,
		Game:    newGameResponse(*game, nil),
	})
}

// RemoveGameFromCollection godoc
// @Summary      Remove a game from a collection
// @Tags         collections
// @Produce      json
// @Security     BearerAuth
// @Param        id     path int true "Collection ID"
// @Param        gameID path int true "Game ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Not the owner"
// @Failure      404 {object} ErrorResponse "Game is not in the collection"
// @Router       /collections/{id}/games/{gameID} [delete]
func (h *Handler) RemoveGameFromCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameID")
	if !ok {
		return
	}
	if err := h.catalog.RemoveGameFromCollection(c.Request.Context(), auth.UserID(c), id, gameID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Game removed from collection"})
}

// ToggleCollectionLike godoc
// @Summary      Like or unlike a collection
// @Description  Owners cannot like their own collections and private collections cannot be liked.
// @Tags         collections
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Collection ID"
// @Success      200 {object} LikeResponse
// @Failure      403 {object} ErrorResponse "Own or private collection"
// @Failure      404 {object} ErrorResponse "Collection not found"
// @Router       /collections/{id}/like [post]
func (h *Handler) ToggleCollectionLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.catalog.ToggleCollectionLike(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RecordToggle("like", string(res.Status))
	c.JSON(http.StatusOK, LikeResponse{Status: res.Status, LikesCount: res.LikesCount})
}

// CollectionEvents godoc
// @Summary      Stream collection changes
// @Description  Server-sent events for games added to or removed from the collection and for like toggles.
// @Tags         collections
// @Produce      text/event-stream
// @Param        id path int true "Collection ID"
// @Success      200
// @Failure      403 {object} ErrorResponse "Collection is private"
// @Failure      404 {object} ErrorResponse "Collection not found"
// @Router       /collections/{id}/events [get]
func (h *Handler) CollectionEvents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.catalog.VisibleCollection(ctx, id, auth.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	client := h.hub.Subscribe(id)
	defer h.hub.Unsubscribe(id, client)
	metrics.EventStreams.Inc()
	defer metrics.EventStreams.Dec()
	logger.Debug(ctx).Uint("collection_id", id).Msg("event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("collection", string(msg))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
