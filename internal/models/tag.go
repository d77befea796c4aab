package models

import "time"

// Tag represents a recommendation tag (e.g., "RPG", "Co-op", "Story Rich").
type Tag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;uniqueIndex;not null"`
	Slug      string    `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
