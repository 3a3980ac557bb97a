package models

import "time"

// GameSession is the single active regular game of a chat. The unique index on
// ChatID is what makes "one game per chat" hold across processes.
type GameSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    string    `gorm:"size:64;not null;uniqueIndex:idx_game_sessions_chat" json:"chat_id"`
	Word      string    `gorm:"size:5;not null" json:"-"`
	StartedBy *string   `gorm:"size:64" json:"started_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
