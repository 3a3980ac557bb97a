package models

import "time"

// AuthorizedEnder lets a user end games in a chat without a vote.
type AuthorizedEnder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    string    `gorm:"size:64;not null;uniqueIndex:idx_authorized_enders_chat_user" json:"chat_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_authorized_enders_chat_user" json:"user_id"`
	GrantedBy string    `gorm:"size:64;not null" json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}
