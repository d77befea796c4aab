package catalog

import (
	"context"
	"fmt"

	"recgames/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ToggleStatus string

const (
	StatusAdded   ToggleStatus = "added"
	StatusRemoved ToggleStatus = "removed"
)

// LikeResult reports the outcome of a like toggle together with the live
// number of likes on the collection.
type LikeResult struct {
	Status     ToggleStatus `json:"status"`
	LikesCount int64        `json:"likes_count"`
}

// LikeEvent is published after a like toggle.
type LikeEvent struct {
	CollectionID uint  `json:"collection_id"`
	LikesCount   int64 `json:"likes_count"`
}

// ToggleFavorite adds the game to the user's favorites, or removes it when it
// is already there.
func (s *Service) ToggleFavorite(ctx context.Context, userID, gameID uint) (ToggleStatus, error) {
	var status ToggleStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadGame(ctx, tx, gameID); err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND game_id = ?", userID, gameID).Delete(&models.Favorite{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove favorite: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			status = StatusRemoved
			return nil
		}
		// A concurrent toggle may have inserted the row already.
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Favorite{UserID: userID, GameID: gameID}).Error
		if err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		status = StatusAdded
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func countLikes(tx *gorm.DB, collectionID uint) (int64, error) {
	var n int64
	if err := tx.Model(&models.CollectionLike{}).Where("collection_id = ?", collectionID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}

// ToggleCollectionLike likes or unlikes a collection on behalf of userID.
// Owners cannot like their own collections and private collections cannot be
// liked at all. The stored likes_count is rewritten from the live count in
// the same transaction.
func (s *Service) ToggleCollectionLike(ctx context.Context, userID, collectionID uint) (LikeResult, error) {
	var res LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collection, err := s.loadCollection(ctx, tx, collectionID)
		if err != nil {
			return err
		}
		if collection.UserID == userID {
			return fmt.Errorf("collection %d: %w", collectionID, ErrSelfLikeForbidden)
		}
		if !collection.IsPublic {
			return fmt.Errorf("collection %d is private: %w", collectionID, ErrPermissionDenied)
		}

		result := tx.Where("user_id = ? AND collection_id = ?", userID, collectionID).Delete(&models.CollectionLike{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove like: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			res.Status = StatusRemoved
		} else {
			if err := tx.Create(&models.CollectionLike{UserID: userID, CollectionID: collectionID}).Error; err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			res.Status = StatusAdded
		}

		if res.LikesCount, err = countLikes(tx, collectionID); err != nil {
			return err
		}
		if err := tx.Model(&models.Collection{}).Where("id = ?", collectionID).
			UpdateColumn("likes_count", res.LikesCount).Error; err != nil {
			return fmt.Errorf("failed to update likes count: %w", err)
		}
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}

	s.publish(collectionID, EventLikeToggled, LikeEvent{CollectionID: collectionID, LikesCount: res.LikesCount})
	return res, nil
}
