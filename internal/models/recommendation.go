package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is an audit record of a recommendation event.
type Recommendation struct {
	ID         uint              `gorm:"primaryKey"`
	UserID     uint              `gorm:"not null;index"`
	GameID     uint              `gorm:"not null;index"`
	Parameters datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time         `gorm:"index"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}
