package catalog

import (
	"context"
	"fmt"
	"strings"

	"recgames/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	LatestGamesLimit = 8
	SearchLimit      = 50
)

// byRating is the result order shared by search and the tag filter: rating
// descending, ties broken by ascending id.
const byRating = "games.rating DESC, games.id ASC"

// GameListParams selects a page of the catalog.
type GameListParams struct {
	Page   int
	Limit  int
	TagIDs []uint // games having any of these tags
}

// CollectionMembership tells whether a game is part of one of the viewer's collections.
type CollectionMembership struct {
	Collection  models.Collection
	GameIsAdded bool
}

// GameDetail is a game as seen by a particular viewer.
type GameDetail struct {
	Game            models.Game
	IsFavorite      bool
	UserCollections []CollectionMembership
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

func (s *Service) findTags(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Tag, error) {
	tags := []*models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(unique) {
		return nil, fmt.Errorf("%w: unknown tag ids", ErrInvalidInput)
	}
	return tags, nil
}

func applyGameInput(game *models.Game, input GameInput) {
	game.Title = strings.TrimSpace(input.Title)
	game.Genre = input.Genre
	game.Developer = strings.TrimSpace(input.Developer)
	game.ReleaseYear = input.ReleaseYear
	game.Price = input.Price
	game.Platform = input.Platform
	game.Rating = input.Rating
	game.Description = input.Description
	game.ImageURL = input.ImageURL
	game.ExternalURL = input.ExternalURL
}

// CreateGame adds a game to the catalog and associates it with the given tags.
func (s *Service) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.findTags(ctx, tx, input.TagIDs)
		if err != nil {
			return err
		}
		applyGameInput(&game, input)
		game.Tags = tags
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame replaces a game's fields and tags.
func (s *Service) UpdateGame(ctx context.Context, id uint, input GameInput) (*models.Game, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := s.loadGame(ctx, tx, id)
		if err != nil {
			return err
		}
		tags, err := s.findTags(ctx, tx, input.TagIDs)
		if err != nil {
			return err
		}
		applyGameInput(game, input)
		if err := tx.Omit(clause.Associations).Save(game).Error; err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}
		if err := tx.Model(game).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to update tags for game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, id)
}

// DeleteGame removes a game together with its memberships, favorites,
// recommendation records and tag links.
func (s *Service) DeleteGame(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadGame(ctx, tx, id); err != nil {
			return err
		}
		for _, child := range []any{&models.GameCollection{}, &models.Favorite{}, &models.Recommendation{}} {
			if err := tx.Where("game_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete game children: %w", err)
			}
		}
		if err := tx.Select("Tags").Delete(&models.Game{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
}

// GetGame returns a game with its tags.
func (s *Service) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Preload("Tags", preloadTags).First(&game, id).Error; err != nil {
		return nil, notFound(err, "game", id)
	}
	return &game, nil
}

// GameDetail returns a game with the viewer's favorite flag and the viewer's
// collections, each flagged when it already contains the game. viewerID 0 is
// an anonymous viewer.
func (s *Service) GameDetail(ctx context.Context, gameID, viewerID uint) (*GameDetail, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	detail := &GameDetail{Game: *game, UserCollections: []CollectionMembership{}}
	if viewerID == 0 {
		return detail, nil
	}

	db := s.db.WithContext(ctx)
	var favorites int64
	if err := db.Model(&models.Favorite{}).Where("user_id = ? AND game_id = ?", viewerID, gameID).Count(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	detail.IsFavorite = favorites > 0

	var collections []models.Collection
	if err := db.Where("user_id = ?", viewerID).Order("created_at DESC, id DESC").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	var memberOf []uint
	if err := db.Model(&models.GameCollection{}).
		Joins("JOIN collections ON collections.id = game_collections.collection_id").
		Where("game_collections.game_id = ? AND collections.user_id = ?", gameID, viewerID).
		Pluck("game_collections.collection_id", &memberOf).Error; err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	added := make(map[uint]bool, len(memberOf))
	for _, id := range memberOf {
		added[id] = true
	}
	for _, c := range collections {
		detail.UserCollections = append(detail.UserCollections, CollectionMembership{Collection: c, GameIsAdded: added[c.ID]})
	}
	return detail, nil
}

// ListGames returns a page of games, newest first.
func (s *Service) ListGames(ctx context.Context, params GameListParams) ([]models.Game, int64, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Game{})
	if len(params.TagIDs) > 0 {
		query = query.Where("games.id IN (?)",
			db.Table("game_tags").Select("game_id").Where("tag_id IN ?", params.TagIDs))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count games: %w", err)
	}

	page, limit := NormalizePage(params.Page, params.Limit)
	var games []models.Game
	err := query.Preload("Tags", preloadTags).
		Order("games.created_at DESC, games.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve games: %w", err)
	}
	return games, total, nil
}

// LatestGames returns the most recently added games.
func (s *Service) LatestGames(ctx context.Context, limit int) ([]models.Game, error) {
	if limit <= 0 {
		limit = LatestGamesLimit
	}
	var games []models.Game
	err := s.db.WithContext(ctx).Preload("Tags", preloadTags).
		Order("games.created_at DESC, games.id DESC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve latest games: %w", err)
	}
	return games, nil
}

// SearchGames matches query case-insensitively against game titles. An empty
// query matches nothing.
func (s *Service) SearchGames(ctx context.Context, query string) ([]models.Game, error) {
	query = strings.TrimSpace(query)
	games := []models.Game{}
	if query == "" {
		return games, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := s.db.WithContext(ctx).Preload("Tags", preloadTags).
		Where("LOWER(games.title) LIKE ? ESCAPE '\\'", pattern).
		Order(byRating).
		Limit(SearchLimit).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}
	return games, nil
}

// FavoriteGameIDs returns which of gameIDs the user has favorited.
func (s *Service) FavoriteGameIDs(ctx context.Context, userID uint, gameIDs []uint) (map[uint]bool, error) {
	ids := make(map[uint]bool)
	if userID == 0 || len(gameIDs) == 0 {
		return ids, nil
	}
	var found []uint
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND game_id IN ?", userID, gameIDs).
		Pluck("game_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	for _, id := range found {
		ids[id] = true
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// NormalizePage clamps page to at least 1 and limit to 1..100, defaulting to 10.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
