package daily

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wordseek/seekengine/models"
)

// nextStreak applies one finished puzzle on date to s.
//
//	win:  last played yesterday -> current+1; already today -> unchanged; else 1
//	loss: current = 0
//
// Either way the last date becomes date and highest never drops below current.
func nextStreak(s models.UserStreak, date string, won bool) (models.UserStreak, error) {
	yesterday, err := PreviousDate(date)
	if err != nil {
		return s, err
	}
	if won {
		switch {
		case s.LastGuessedDate != nil && *s.LastGuessedDate == yesterday:
			s.CurrentStreak++
		case s.LastGuessedDate != nil && *s.LastGuessedDate == date:
		default:
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 0
	}
	if s.CurrentStreak > s.HighestStreak {
		s.HighestStreak = s.CurrentStreak
	}
	last := date
	s.LastGuessedDate = &last
	return s, nil
}

// recordResult updates the user's streak on tx. The row is locked where the
// database supports it so two finishes for one user cannot interleave.
func recordResult(tx *gorm.DB, userID, date string, won bool) (*models.UserStreak, error) {
	var cur models.UserStreak
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("user_id = ?", userID).First(&cur).Error
	fresh := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !fresh {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	if fresh {
		cur = models.UserStreak{UserID: userID}
	}
	next, err := nextStreak(cur, date, won)
	if err != nil {
		return nil, err
	}
	if fresh {
		err = tx.Create(&next).Error
	} else {
		err = tx.Model(&models.UserStreak{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
			"current_streak":    next.CurrentStreak,
			"highest_streak":    next.HighestStreak,
			"last_guessed_date": next.LastGuessedDate,
		}).Error
	}
	if err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}
	return &next, nil
}
