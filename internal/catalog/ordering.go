package catalog

import (
	"context"
	"errors"
	"fmt"

	"recgames/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	EventGameAdded   = "game_added"
	EventGameRemoved = "game_removed"
	EventLikeToggled = "like_toggled"
)

// MembershipEvent is published when a game joins or leaves a collection.
type MembershipEvent struct {
	CollectionID uint `json:"collection_id"`
	GameID       uint `json:"game_id"`
	Order        int  `json:"order,omitempty"`
}

// lockOwnedCollection loads the collection under a row lock and checks that
// actorID owns it. The lock serializes concurrent order assignment per collection.
func (s *Service) lockOwnedCollection(ctx context.Context, tx *gorm.DB, actorID, collectionID uint) (*models.Collection, error) {
	var collection models.Collection
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&collection, collectionID).Error
	if err != nil {
		return nil, notFound(err, "collection", collectionID)
	}
	if collection.UserID != actorID {
		return nil, fmt.Errorf("collection %d belongs to another user: %w", collectionID, ErrPermissionDenied)
	}
	return &collection, nil
}

// AddGameToCollection appends a game to the end of a collection owned by actorID.
// The new membership gets the highest order in the collection plus one.
func (s *Service) AddGameToCollection(ctx context.Context, actorID, collectionID, gameID uint) (*models.GameCollection, error) {
	var membership models.GameCollection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOwnedCollection(ctx, tx, actorID, collectionID); err != nil {
			return err
		}
		if _, err := s.loadGame(ctx, tx, gameID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.GameCollection{}).
			Where("collection_id = ? AND game_id = ?", collectionID, gameID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("game %d in collection %d: %w", gameID, collectionID, ErrDuplicateMembership)
		}

		var maxOrder int
		if err := tx.Model(&models.GameCollection{}).
			Select("COALESCE(MAX(position), 0)").
			Where("collection_id = ?", collectionID).
			Row().Scan(&maxOrder); err != nil {
			return fmt.Errorf("failed to compute order: %w", err)
		}

		membership = models.GameCollection{CollectionID: collectionID, GameID: gameID, Order: maxOrder + 1}
		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("game %d in collection %d: %w", gameID, collectionID, ErrDuplicateMembership)
			}
			return fmt.Errorf("failed to add game to collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(collectionID, EventGameAdded, MembershipEvent{CollectionID: collectionID, GameID: gameID, Order: membership.Order})
	return &membership, nil
}

// RemoveGameFromCollection deletes a membership. Remaining orders are kept as
// they are, so gaps may appear.
func (s *Service) RemoveGameFromCollection(ctx context.Context, actorID, collectionID, gameID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOwnedCollection(ctx, tx, actorID, collectionID); err != nil {
			return err
		}
		result := tx.Where("collection_id = ? AND game_id = ?", collectionID, gameID).Delete(&models.GameCollection{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove game from collection: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("game %d in collection %d: %w", gameID, collectionID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(collectionID, EventGameRemoved, MembershipEvent{CollectionID: collectionID, GameID: gameID})
	return nil
}

func orderedMemberships(tx *gorm.DB, collectionID uint) *gorm.DB {
	return tx.Where("collection_id = ?", collectionID).Order("position ASC, id ASC")
}

// ListCollectionGames returns the memberships of a collection with their games,
// in display order.
func (s *Service) ListCollectionGames(ctx context.Context, collectionID uint) ([]models.GameCollection, error) {
	memberships := []models.GameCollection{}
	err := orderedMemberships(s.db.WithContext(ctx), collectionID).
		Preload("Game").
		Preload("Game.Tags", preloadTags).
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collection games: %w", err)
	}
	return memberships, nil
}

// renumber assigns orders 1..N to the memberships of a collection, keeping
// their current relative order. It returns N.
func renumber(tx *gorm.DB, collectionID uint) (int, error) {
	var memberships []models.GameCollection
	if err := orderedMemberships(tx, collectionID).Find(&memberships).Error; err != nil {
		return 0, fmt.Errorf("failed to load memberships: %w", err)
	}
	for i, m := range memberships {
		if m.Order == i+1 {
			continue
		}
		if err := tx.Model(&models.GameCollection{}).Where("id = ?", m.ID).Update("position", i+1).Error; err != nil {
			return 0, fmt.Errorf("failed to update order: %w", err)
		}
	}
	return len(memberships), nil
}

// RecomputeOrder renumbers the games of one collection to 1..N.
func (s *Service) RecomputeOrder(ctx context.Context, collectionID uint) (int, error) {
	var n int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&collection, collectionID).Error; err != nil {
			return notFound(err, "collection", collectionID)
		}
		var err error
		n, err = renumber(tx, collectionID)
		return err
	})
	return n, err
}

// RecomputeAllOrders renumbers every collection and returns how many were processed.
func (s *Service) RecomputeAllOrders(ctx context.Context) (int, error) {
	var processed int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Collection{}).Order("id").Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to list collections: %w", err)
		}
		for _, id := range ids {
			if _, err := renumber(tx, id); err != nil {
				return err
			}
		}
		processed = len(ids)
		return nil
	})
	return processed, err
}
