package models

import "time"

// BannedUser may not play either game.
type BannedUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex" json:"user_id"`
	BannedBy  string    `gorm:"size:64;not null" json:"banned_by"`
	CreatedAt time.Time `json:"created_at"`
}
