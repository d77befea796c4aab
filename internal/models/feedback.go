package models

import "time"

// Feedback is a contact form submission.
type Feedback struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:254;not null"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
	IsProcessed bool      `gorm:"not null;default:false;index"`
}
