package models

import "time"

// DailyAttempt is one guess by one user against one DailyPuzzle.
type DailyAttempt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:64;not null;uniqueIndex:idx_daily_attempts_guess;uniqueIndex:idx_daily_attempts_number" json:"user_id"`
	DailyPuzzleID uint      `gorm:"not null;index;uniqueIndex:idx_daily_attempts_guess;uniqueIndex:idx_daily_attempts_number" json:"daily_puzzle_id"`
	Guess         string    `gorm:"size:5;not null;uniqueIndex:idx_daily_attempts_guess" json:"guess"`
	AttemptNumber int       `gorm:"not null;uniqueIndex:idx_daily_attempts_number" json:"attempt_number"`
	CreatedAt     time.Time `json:"created_at"`
}
