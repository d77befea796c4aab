// Package handler exposes the catalog and account services over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"recgames/backend/internal/account"
	"recgames/backend/internal/auth"
	"recgames/backend/internal/catalog"
	"recgames/backend/internal/hub"
	"recgames/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse is returned by endpoints with nothing else to report.
type MessageResponse struct {
	Message string `json:"message" example:"Game deleted"`
}

// Options configures token issuing.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Handler serves the HTTP API. Every request handler passes the acting user
// to the services explicitly.
type Handler struct {
	catalog  *catalog.Service
	accounts *account.Service
	hub      *hub.Hub
	opts     Options
}

func New(catalogSvc *catalog.Service, accounts *account.Service, events *hub.Hub, opts Options) *Handler {
	return &Handler{catalog: catalogSvc, accounts: accounts, hub: events, opts: opts}
}

// RegisterRoutes mounts the API on group, normally /api/v1.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	required := auth.AuthMiddleware(h.opts.JWTSecret)
	optional := auth.OptionalAuthMiddleware(h.opts.JWTSecret)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.LoginUser)
	}

	api.GET("/home", optional, h.GetHome)
	api.GET("/tags", h.GetTags)
	api.POST("/contact", h.SubmitFeedback)
	api.POST("/recommendations/filter", h.FilterGames)

	gameRoutes := api.Group("/games")
	{
		gameRoutes.GET("", optional, h.GetGames)
		gameRoutes.GET("/search", h.SearchGames)
		gameRoutes.GET("/:id", optional, h.GetGameByID)
		gameRoutes.POST("/:id/favorite", required, h.ToggleFavoriteGame)
	}

	collectionRoutes := api.Group("/collections")
	{
		collectionRoutes.GET("", optional, h.GetCollections)
		collectionRoutes.POST("", required, h.CreateCollection)
		collectionRoutes.GET("/:id", optional, h.GetCollectionByID)
		collectionRoutes.GET("/:id/events", optional, h.CollectionEvents)
		collectionRoutes.PUT("/:id", required, h.UpdateCollection)
		collectionRoutes.DELETE("/:id", required, h.DeleteCollection)
		collectionRoutes.POST("/:id/games", required, h.AddGameToCollection)
		collectionRoutes.DELETE("/:id/games/:gameID", required, h.RemoveGameFromCollection)
		collectionRoutes.POST("/:id/like", required, h.ToggleCollectionLike)
	}

	userRoutes := api.Group("/users")
	userRoutes.Use(required)
	{
		userRoutes.GET("/me", h.GetMe)
		userRoutes.PUT("/me/preferences", h.UpdatePreferences)
		userRoutes.GET("/me/favorites", h.GetFavorites)
	}

	adminRoutes := api.Group("/admin")
	adminRoutes.Use(required, auth.AdminMiddleware(h.accounts))
	{
		tags := adminRoutes.Group("/tags")
		{
			tags.POST("", h.CreateTag)
			tags.GET("", h.GetTags)
			tags.PUT("/:id", h.UpdateTag)
			tags.DELETE("/:id", h.DeleteTag)
		}

		adminGameRoutes := adminRoutes.Group("/games")
		{
			adminGameRoutes.POST("", h.CreateGame)
			adminGameRoutes.PUT("/:id", h.UpdateGame)
			adminGameRoutes.DELETE("/:id", h.DeleteGame)
		}

		adminCollectionRoutes := adminRoutes.Group("/collections")
		{
			adminCollectionRoutes.POST("/recompute-order", h.RecomputeAllOrders)
			adminCollectionRoutes.POST("/:id/recompute-order", h.RecomputeOrder)
			adminCollectionRoutes.POST("/recompute-likes", h.RecomputeLikesCounts)
			adminCollectionRoutes.POST("/visibility", h.SetCollectionsVisibility)
		}

		adminRoutes.POST("/profiles/recompute-collections", h.RecomputeCollectionsCount)
		adminRoutes.GET("/feedback", h.ListFeedback)
		adminRoutes.POST("/feedback/:id/processed", h.MarkFeedbackProcessed)
		adminRoutes.POST("/recommendations", h.RecordRecommendation)
		adminRoutes.PUT("/users/:id/role", h.SetUserRole)
	}
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, account.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateMembership), errors.Is(err, catalog.ErrConflict),
		errors.Is(err, account.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrPermissionDenied), errors.Is(err, catalog.ErrSelfLikeForbidden):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrInvalidInput), errors.Is(err, catalog.ErrInvalidFilterRequest),
		errors.Is(err, account.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.Error(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// pathID parses a positive numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
