package models

import "time"

// Collection is a user-curated, ordered list of games.
// LikesCount mirrors the number of CollectionLike rows and is rewritten in the
// same transaction as every like toggle.
type Collection struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	IsPublic    bool      `gorm:"not null;index"`
	LikesCount  int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// GameCollection is the membership of a game in a collection. Order defines
// the display sequence inside the collection; gaps are allowed.
type GameCollection struct {
	ID           uint      `gorm:"primaryKey"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_game"`
	GameID       uint      `gorm:"not null;uniqueIndex:idx_collection_game;index"`
	Order        int       `gorm:"column:position;not null;default:0"`
	AddedAt      time.Time `gorm:"autoCreateTime"`

	Collection Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE;"`
	Game       Game       `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}

// CollectionLike marks a collection as liked by a user.
// The primary key is a composite of (UserID, CollectionID) to ensure uniqueness.
type CollectionLike struct {
	UserID       uint      `gorm:"primaryKey"`
	CollectionID uint      `gorm:"primaryKey;index"`
	CreatedAt    time.Time `gorm:"index"`

	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Collection Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE;"`
}
