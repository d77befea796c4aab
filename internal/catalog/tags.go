package catalog

import (
	"context"
	"fmt"
	"strings"

	"recgames/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) normalizeTag(input TagInput) (models.Tag, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if err := s.check(input); err != nil {
		return models.Tag{}, err
	}
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if slug == "" {
		return models.Tag{}, fmt.Errorf("%w: slug cannot be derived from name %q", ErrInvalidInput, input.Name)
	}
	return models.Tag{Name: input.Name, Slug: slug}, nil
}

func ensureTagUnique(tx *gorm.DB, tag models.Tag, exceptID uint) error {
	var count int64
	err := tx.Model(&models.Tag{}).
		Where("(name = ? OR slug = ?) AND id <> ?", tag.Name, tag.Slug, exceptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check tag uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("tag %q: %w", tag.Name, ErrConflict)
	}
	return nil
}

// CreateTag creates a tag. The slug is derived from the name when omitted.
func (s *Service) CreateTag(ctx context.Context, input TagInput) (*models.Tag, error) {
	tag, err := s.normalizeTag(input)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTagUnique(tx, tag, 0); err != nil {
			return err
		}
		if err := tx.Create(&tag).Error; err != nil {
			return fmt.Errorf("failed to create tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags returns every tag ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// UpdateTag renames a tag.
func (s *Service) UpdateTag(ctx context.Context, id uint, input TagInput) (*models.Tag, error) {
	next, err := s.normalizeTag(input)
	if err != nil {
		return nil, err
	}
	var tag models.Tag
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return notFound(err, "tag", id)
		}
		if err := ensureTagUnique(tx, next, id); err != nil {
			return err
		}
		tag.Name, tag.Slug = next.Name, next.Slug
		if err := tx.Save(&tag).Error; err != nil {
			return fmt.Errorf("failed to update tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag and unlinks it from every game.
func (s *Service) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM game_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink tag: %w", err)
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete tag: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
