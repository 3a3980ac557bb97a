package models

import "time"

// ChatGameTopic restricts a forum chat's game to listed topics. A chat with no
// rows accepts guesses from any topic. Messages outside a thread use "general".
type ChatGameTopic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    string    `gorm:"size:64;not null;uniqueIndex:idx_chat_game_topics_chat_topic" json:"chat_id"`
	TopicID   string    `gorm:"size:64;not null;uniqueIndex:idx_chat_game_topics_chat_topic" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}
