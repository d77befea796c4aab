package models

import "time"

// Favorite marks a game as liked by a user.
// The primary key is a composite of (UserID, GameID) to ensure uniqueness.
type Favorite struct {
	UserID  uint      `gorm:"primaryKey"`
	GameID  uint      `gorm:"primaryKey;index"`
	AddedAt time.Time `gorm:"autoCreateTime;index"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}
