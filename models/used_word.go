package models

import "time"

// UsedWord remembers which words a chat has already played, so the selector can
// avoid repeats after the session itself is gone.
type UsedWord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    string    `gorm:"size:64;not null;index:idx_used_words_chat_created,priority:1" json:"chat_id"`
	Word      string    `gorm:"size:5;not null" json:"word"`
	CreatedAt time.Time `gorm:"index:idx_used_words_chat_created,priority:2" json:"created_at"`
}
