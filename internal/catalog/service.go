// Package catalog implements the game catalog, collections, likes and the
// tag-based recommendation filter on top of GORM.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"recgames/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/gorm"
)

// Service is the entry point to catalog operations. Every operation that acts
// on behalf of a user takes that user's ID explicitly.
type Service struct {
	db           *gorm.DB
	validate     *validator.Validate
	filterSchema *gojsonschema.Schema
	events       EventPublisher
}

// EventPublisher receives notifications about collection changes.
type EventPublisher interface {
	Publish(collectionID uint, eventType string, payload any)
}

type Option func(*Service)

// WithEvents makes the service publish collection changes to p.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// NewService creates a catalog service backed by db.
func NewService(db *gorm.DB, opts ...Option) (*Service, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(tagFilterSchema))
	if err != nil {
		return nil, fmt.Errorf("compile tag filter schema: %w", err)
	}
	s := &Service{
		db:           db,
		validate:     newValidator(),
		filterSchema: schema,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) publish(collectionID uint, eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(collectionID, eventType, payload)
	}
}

// notFound converts gorm.ErrRecordNotFound into ErrNotFound.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %d: %w", what, id, err)
}

func (s *Service) loadGame(ctx context.Context, tx *gorm.DB, id uint) (*models.Game, error) {
	var game models.Game
	if err := tx.WithContext(ctx).First(&game, id).Error; err != nil {
		return nil, notFound(err, "game", id)
	}
	return &game, nil
}

func (s *Service) loadCollection(ctx context.Context, tx *gorm.DB, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := tx.WithContext(ctx).First(&collection, id).Error; err != nil {
		return nil, notFound(err, "collection", id)
	}
	return &collection, nil
}
