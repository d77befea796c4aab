package handler

import (
	"net/http"
	"time"

	"recgames/backend/internal/auth"
	"recgames/backend/internal/catalog"
	"recgames/backend/internal/metrics"
	"recgames/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameResponse struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	Genre        string        `json:"genre"`
	GenreDisplay string        `json:"genre_display"`
	Developer    string        `json:"developer"`
	ReleaseYear  int           `json:"release_year"`
	Price        int           `json:"price"`
	Platform     string        `json:"platform"`
	Rating       int           `json:"rating"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url"`
	ExternalURL  string        `json:"external_url"`
	CreatedAt    time.Time     `json:"created_at"`
	IsFavorite   bool          `json:"is_favorite"`
	Tags         []TagResponse `json:"tags"`
}

func newGameResponse(game models.Game, favoriteIDs map[uint]bool) GameResponse {
	tagResponses := make([]TagResponse, 0, len(game.Tags))
	for _, tag := range game.Tags {
		if tag != nil {
			tagResponses = append(tagResponses, newTagResponse(*tag))
		}
	}

	return GameResponse{
		ID:           game.ID,
		Title:        game.Title,
		Genre:        string(game.Genre),
		GenreDisplay: game.Genre.Display(),
		Developer:    game.Developer,
		ReleaseYear:  game.ReleaseYear,
		Price:        game.Price,
		Platform:     string(game.Platform),
		Rating:       game.Rating,
		Description:  game.Description,
		ImageURL:     game.ImageURL,
		ExternalURL:  game.ExternalURL,
		CreatedAt:    game.CreatedAt,
		IsFavorite:   favoriteIDs[game.ID],
		Tags:         tagResponses,
	}
}

func newGameResponses(games []models.Game, favoriteIDs map[uint]bool) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, newGameResponse(g, favoriteIDs))
	}
	return out
}

// UserCollectionResponse tells whether the game is part of one of the viewer's collections.
type UserCollectionResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	IsPublic    bool   `json:"is_public"`
	GameIsAdded bool   `json:"game_is_added"`
}

type GameDetailResponse struct {
	Game            GameResponse             `json:"game"`
	UserCollections []UserCollectionResponse `json:"user_collections"`
}

type HomeResponse struct {
	LatestGames        []GameResponse       `json:"latest_games"`
	PopularCollections []CollectionResponse `json:"popular_collections"`
}

type FavoriteResponse struct {
	Status     catalog.ToggleStatus `json:"status" example:"added"`
	IsFavorite bool                 `json:"is_favorite"`
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new game and associates it with given tags.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body catalog.GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input catalog.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.catalog.CreateGame(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(*game, nil))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's details and replaces its tags.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Game ID"
// @Param        input body      catalog.GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func (h *Handler) UpdateGame(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input catalog.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.catalog.UpdateGame(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game, nil))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game with its collection memberships, favorites and recommendation records.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteGame(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Game deleted"})
}

// endregion

// region --- Public Handlers ---

// GetHome godoc
// @Summary      Home page data
// @Description  Latest games and the most liked public collections.
// @Tags         games
// @Produce      json
// @Success      200 {object} HomeResponse
// @Router       /home [get]
func (h *Handler) GetHome(c *gin.Context) {
	home, err := h.catalog.Home(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, HomeResponse{
		LatestGames:        newGameResponses(home.LatestGames, home.FavoriteGameIDs),
		PopularCollections: newCollectionResponses(home.PopularCollections),
	})
}

// GetGames godoc
// @Summary      List games
// @Description  Retrieves a paginated list of games, newest first, optionally narrowed to games having any of the given tags.
// @Tags         games
// @Produce      json
// @Param        page    query     int    false  "Page number" default(1)
// @Param        limit   query     int    false  "Items per page" default(10)
// @Param        tag_ids query     []int  false  "Tag IDs" collectionFormat(multi)
// @Success      200     {object}  PaginatedResponse[GameResponse]
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	var query struct {
		TagIDs []uint `form:"tag_ids"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := catalog.GameListParams{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		TagIDs: query.TagIDs,
	}

	ctx := c.Request.Context()
	games, total, err := h.catalog.ListGames(ctx, params)
	if err != nil {
		respondError(c, err)
		return
	}
	ids := make([]uint, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	favorites, err := h.catalog.FavoriteGameIDs(ctx, auth.UserID(c), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	page, limit := catalog.NormalizePage(params.Page, params.Limit)
	c.JSON(http.StatusOK, NewPaginatedResponse(newGameResponses(games, favorites), total, page, limit))
}

// SearchGames godoc
// @Summary      Search games
// @Description  Case-insensitive title search, at most 50 results ordered by rating.
// @Tags         games
// @Produce      json
// @Param        q   query     string  false  "Title substring"
// @Success      200 {array}   GameResponse
// @Router       /games/search [get]
func (h *Handler) SearchGames(c *gin.Context) {
	games, err := h.catalog.SearchGames(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponses(games, nil))
}

// GetGameByID godoc
// @Summary      Get game by ID
// @Description  Retrieves a game; for signed-in users also the favorite flag and their collections.
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameDetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.catalog.GameDetail(c.Request.Context(), id, auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := GameDetailResponse{
		Game:            newGameResponse(detail.Game, map[uint]bool{detail.Game.ID: detail.IsFavorite}),
		UserCollections: make([]UserCollectionResponse, 0, len(detail.UserCollections)),
	}
	for _, m := range detail.UserCollections {
		response.UserCollections = append(response.UserCollections, UserCollectionResponse{
			ID:          m.Collection.ID,
			Title:       m.Collection.Title,
			IsPublic:    m.Collection.IsPublic,
			GameIsAdded: m.GameIsAdded,
		})
	}
	c.JSON(http.StatusOK, response)
}

// ToggleFavoriteGame godoc
// @Summary      Toggle a game in favorites
// @Description  Adds or removes a game from the user's favorites list.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} FavoriteResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      500 {object} ErrorResponse "Failed to update favorites"
// @Router       /games/{id}/favorite [post]
func (h *Handler) ToggleFavoriteGame(c *gin.Context) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.catalog.ToggleFavorite(c.Request.Context(), auth.UserID(c), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RecordToggle("favorite", string(status))
	c.JSON(http.StatusOK, FavoriteResponse{Status: status, IsFavorite: status == catalog.StatusAdded})
}

// endregion
