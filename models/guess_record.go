package models

import "time"

// GuessRecord is one non-winning guess made during a GameSession.
type GuessRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_guess_records_game_guess" json:"game_id"`
	Guess     string    `gorm:"size:5;not null;uniqueIndex:idx_guess_records_game_guess" json:"guess"`
	ChatID    string    `gorm:"size:64;index;not null" json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}
