package catalog

import (
	"context"
	"fmt"

	"recgames/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecomputeLikesCounts rewrites likes_count of every collection from the live
// like count and returns the number of collections updated.
func (s *Service) RecomputeLikesCounts(ctx context.Context) (int64, error) {
	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := tx.Model(&models.CollectionLike{}).
			Select("COUNT(*)").
			Where("collection_likes.collection_id = collections.id")
		result := tx.Model(&models.Collection{}).Where("1 = 1").UpdateColumn("likes_count", likes)
		if result.Error != nil {
			return fmt.Errorf("failed to recompute likes counts: %w", result.Error)
		}
		updated = result.RowsAffected
		return nil
	})
	return updated, err
}

// RecomputeCollectionsCount rewrites collections_count for the given users, or
// for every profile when none are given. It returns the number of profiles processed.
func (s *Service) RecomputeCollectionsCount(ctx context.Context, userIDs ...uint) (int, error) {
	var processed int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(userIDs) == 0 {
			if err := tx.Model(&models.UserProfile{}).Order("user_id").Pluck("user_id", &userIDs).Error; err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
		}
		for _, id := range userIDs {
			if err := recountCollections(tx, id); err != nil {
				return err
			}
		}
		processed = len(userIDs)
		return nil
	})
	return processed, err
}

// SetCollectionsVisibility marks the given collections public or private.
func (s *Service) SetCollectionsVisibility(ctx context.Context, ids []uint, public bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&models.Collection{}).
		Where("id IN ?", ids).
		UpdateColumn("is_public", public)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update visibility: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SubmitFeedback stores a contact form message.
func (s *Service) SubmitFeedback(ctx context.Context, input FeedbackInput) (*models.Feedback, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	feedback := models.Feedback{Name: input.Name, Email: input.Email, Message: input.Message}
	if err := s.db.WithContext(ctx).Create(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return &feedback, nil
}

// ListFeedback returns a page of feedback messages, newest first.
func (s *Service) ListFeedback(ctx context.Context, page, limit int) ([]models.Feedback, int64, error) {
	page, limit = NormalizePage(page, limit)
	query := s.db.WithContext(ctx).Model(&models.Feedback{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	items := []models.Feedback{}
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, total, nil
}

// MarkFeedbackProcessed flags a feedback message as handled.
func (s *Service) MarkFeedbackProcessed(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", id).UpdateColumn("is_processed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to update feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("feedback %d: %w", id, ErrNotFound)
	}
	return nil
}

// RecordRecommendation stores an audit record of a recommendation shown to a user.
func (s *Service) RecordRecommendation(ctx context.Context, userID, gameID uint, params map[string]any) (*models.Recommendation, error) {
	if params == nil {
		params = map[string]any{}
	}
	rec := models.Recommendation{UserID: userID, GameID: gameID, Parameters: datatypes.JSONMap(params)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadGame(ctx, tx, gameID); err != nil {
			return err
		}
		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if users == 0 {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		if err := tx.Omit("User", "Game").Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to record recommendation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
