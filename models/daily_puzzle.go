package models

import "time"

// DailyPuzzle is the shared word of one game date. Rows are never updated.
type DailyPuzzle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DayNumber int       `gorm:"not null;uniqueIndex" json:"day_number"`
	Word      string    `gorm:"size:5;not null" json:"-"`
	Date      string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	Meaning   *string   `gorm:"type:text" json:"meaning,omitempty"`
	Phonetic  *string   `gorm:"size:128" json:"phonetic,omitempty"`
	Example   *string   `gorm:"type:text" json:"example,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
