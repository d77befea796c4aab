package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserProfile holds per-user preferences. CollectionsCount mirrors the number
// of collections owned by the user.
type UserProfile struct {
	ID               uint                        `gorm:"primaryKey"`
	UserID           uint                        `gorm:"not null;uniqueIndex"`
	Preferences      datatypes.JSONSlice[string] `gorm:"not null"`
	CollectionsCount int                         `gorm:"not null;default:0"`
	CreatedAt        time.Time
}
