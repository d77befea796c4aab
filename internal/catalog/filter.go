package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recgames/backend/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const tagFilterSchema = `{
	"type": "object",
	"properties": {
		"include_tags": {"type": "array", "items": {"type": "string"}},
		"exclude_tags": {"type": "array", "items": {"type": "string"}}
	}
}`

// TagFilter selects games having every Include tag and none of the Exclude tags.
type TagFilter struct {
	Include []string `json:"include_tags"`
	Exclude []string `json:"exclude_tags"`
}

// GameProjection is the read-only view of a game returned by the tag filter.
type GameProjection struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	GenreDisplay string   `json:"genre_display"`
	ReleaseYear  int      `json:"release_year"`
	Rating       int      `json:"rating"`
	Price        int      `json:"price"`
	ImageURL     string   `json:"image_url"`
	Developer    string   `json:"developer"`
	Tags         []string `json:"tags"`
}

func NewGameProjection(game models.Game) GameProjection {
	return GameProjection{
		ID:           game.ID,
		Title:        game.Title,
		GenreDisplay: game.Genre.Display(),
		ReleaseYear:  game.ReleaseYear,
		Rating:       game.Rating,
		Price:        game.Price,
		ImageURL:     game.ImageURL,
		Developer:    game.Developer,
		Tags:         game.TagNames(),
	}
}

// ParseTagFilter validates a raw filter payload and decodes it.
func (s *Service) ParseTagFilter(payload []byte) (TagFilter, error) {
	var filter TagFilter
	if len(strings.TrimSpace(string(payload))) == 0 {
		return filter, fmt.Errorf("%w: empty payload", ErrInvalidFilterRequest)
	}

	result, err := s.filterSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return filter, fmt.Errorf("%w: %v", ErrInvalidFilterRequest, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return filter, fmt.Errorf("%w: %s", ErrInvalidFilterRequest, strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(payload, &filter); err != nil {
		return filter, fmt.Errorf("%w: %v", ErrInvalidFilterRequest, err)
	}
	return filter, nil
}

func (s *Service) resolveTagIDs(ctx context.Context, names []string) ([]uint, error) {
	var ids []uint
	if len(names) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("name IN ?", names).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	return ids, nil
}

// FilterGames returns the games tagged with every resolved include tag and
// with none of the resolved exclude tags, ordered by rating descending and id
// ascending. Unknown tag names are ignored; an empty include set selects the
// whole catalog.
func (s *Service) FilterGames(ctx context.Context, filter TagFilter) ([]GameProjection, error) {
	includeIDs, err := s.resolveTagIDs(ctx, filter.Include)
	if err != nil {
		return nil, err
	}
	excludeIDs, err := s.resolveTagIDs(ctx, filter.Exclude)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&models.Game{})
	for _, tagID := range includeIDs {
		query = query.Where("games.id IN (?)",
			db.Table("game_tags").Select("game_id").Where("tag_id = ?", tagID))
	}
	if len(excludeIDs) > 0 {
		query = query.Where("games.id NOT IN (?)",
			db.Table("game_tags").Select("game_id").Where("tag_id IN ?", excludeIDs))
	}

	var games []models.Game
	if err := query.Preload("Tags", preloadTags).Order(byRating).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to filter games: %w", err)
	}

	projections := make([]GameProjection, 0, len(games))
	for _, game := range games {
		projections = append(projections, NewGameProjection(game))
	}
	return projections, nil
}
