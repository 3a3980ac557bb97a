package models

import "time"

// ScoreEntry is a leaderboard credit for winning a regular game.
type ScoreEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"user_id"`
	ChatID    string    `gorm:"size:64;index;not null" json:"chat_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
