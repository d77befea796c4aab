package handler

import (
	"net/http"

	"recgames/backend/internal/account"
	"recgames/backend/internal/auth"
	"recgames/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID               uint     `json:"id" example:"1"`
	Username         string   `json:"username" example:"testuser"`
	Email            string   `json:"email" example:"test@example.com"`
	Role             string   `json:"role" example:"user"`
	Preferences      []string `json:"preferences"`
	CollectionsCount int      `json:"collections_count"`
}

type PreferencesInput struct {
	Preferences []string `json:"preferences"`
}

type FavoritesResponse struct {
	Games            []GameResponse       `json:"games"`
	LikedCollections []CollectionResponse `json:"liked_collections"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user with an empty profile and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body account.RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input account.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusCreated, user.ID)
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusOK, user.ID)
}

func (h *Handler) respondToken(c *gin.Context, status int, userID uint) {
	token, err := jwt.GenerateToken(userID, h.opts.JWTSecret, h.opts.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, TokenResponse{Token: token})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.accounts.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := PrivateUserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Preferences: []string{},
	}
	if user.Profile != nil {
		response.Preferences = append(response.Preferences, user.Profile.Preferences...)
		response.CollectionsCount = user.Profile.CollectionsCount
	}
	c.JSON(http.StatusOK, response)
}

// UpdatePreferences godoc
// @Summary      Replace preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PreferencesInput true "Preferences"
// @Success      200  {object}  PreferencesInput
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/preferences [put]
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var input PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.accounts.UpdatePreferences(c.Request.Context(), auth.UserID(c), input.Preferences)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreferencesInput{Preferences: profile.Preferences})
}

// GetFavorites godoc
// @Summary      Favorites page
// @Description  Favorite games, newest first, and collections of other users the current user liked.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  FavoritesResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/favorites [get]
func (h *Handler) GetFavorites(c *gin.Context) {
	page, err := h.catalog.Favorites(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	favorites := make(map[uint]bool, len(page.Games))
	for _, g := range page.Games {
		favorites[g.ID] = true
	}
	c.JSON(http.StatusOK, FavoritesResponse{
		Games:            newGameResponses(page.Games, favorites),
		LikedCollections: newCollectionResponses(page.LikedCollections),
	})
}

// endregion
