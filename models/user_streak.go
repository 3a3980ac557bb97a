package models

import "time"

// UserStreak tracks consecutive solved daily puzzles. LastGuessedDate is the game
// date (YYYY-MM-DD) of the last finished puzzle, not a wall-clock timestamp.
type UserStreak struct {
	UserID          string    `gorm:"primaryKey;size:64" json:"user_id"`
	CurrentStreak   int       `gorm:"not null;default:0" json:"current_streak"`
	HighestStreak   int       `gorm:"not null;default:0" json:"highest_streak"`
	LastGuessedDate *string   `gorm:"size:10" json:"last_guessed_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
