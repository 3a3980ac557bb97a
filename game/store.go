package game

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wordseek/seekengine/models"
)

// SessionStore owns the durable game state. Every transition that must happen
// once (start, win, end) is a single conditional write checked by its result.
type SessionStore struct {
	db     *gorm.DB
	window int
}

func NewSessionStore(db *gorm.DB, recentWindow int) *SessionStore {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &SessionStore{db: db, window: recentWindow}
}

// Start creates the chat's session. The unique chat index decides concurrent
// starts; losers get ErrAlreadyActive.
func (s *SessionStore) Start(ctx context.Context, chatID, word string, startedBy *string) (*models.GameSession, error) {
	sess := &models.GameSession{ChatID: chatID, Word: word, StartedBy: startedBy}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sess).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrAlreadyActive
			}
			return fmt.Errorf("create session: %w", err)
		}
		return rememberWord(tx, chatID, word, s.window)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Active returns the chat's session or ErrNoActiveGame.
func (s *SessionStore) Active(ctx context.Context, chatID string) (*models.GameSession, error) {
	var sess models.GameSession
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveGame
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// RecordGuess appends a non-winning guess; a repeat of the same word in the same
// game is ErrDuplicateGuess.
func (s *SessionStore) RecordGuess(ctx context.Context, gameID uint, guess, chatID string) error {
	err := s.db.WithContext(ctx).Create(&models.GuessRecord{GameID: gameID, Guess: guess, ChatID: chatID}).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateGuess
		}
		return fmt.Errorf("record guess: %w", err)
	}
	return nil
}

// Guesses returns the game's guesses in the order they were made.
func (s *SessionStore) Guesses(ctx context.Context, gameID uint) ([]models.GuessRecord, error) {
	var out []models.GuessRecord
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load guesses: %w", err)
	}
	return out, nil
}

func (s *SessionStore) CountGuesses(ctx context.Context, gameID uint) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.GuessRecord{}).Where("game_id = ?", gameID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count guesses: %w", err)
	}
	return int(n), nil
}

// ClaimWin deletes the session and its guesses. Exactly one caller per session
// gets true; only that caller may award the win.
func (s *SessionStore) ClaimWin(ctx context.Context, gameID uint) (bool, error) {
	return s.Close(ctx, gameID)
}

// Close removes the session by id with the same guarantee as ClaimWin. It is
// used for the guess cap.
func (s *SessionStore) Close(ctx context.Context, gameID uint) (bool, error) {
	var closed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		closed, err = deleteSession(tx, gameID)
		return err
	})
	if err != nil {
		return false, err
	}
	return closed, nil
}

// End removes whatever session the chat has and returns it, so the caller can
// reveal the word. A chat with no session yields ErrNoActiveGame.
func (s *SessionStore) End(ctx context.Context, chatID string) (*models.GameSession, error) {
	var sess models.GameSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).First(&sess).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveGame
			}
			return fmt.Errorf("load session: %w", err)
		}
		ok, err := deleteSession(tx, sess.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoActiveGame
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// AddScore credits a regular-game win.
func (s *SessionStore) AddScore(ctx context.Context, userID, chatID string, score int) error {
	if err := s.db.WithContext(ctx).Create(&models.ScoreEntry{UserID: userID, ChatID: chatID, Score: score}).Error; err != nil {
		return fmt.Errorf("add score: %w", err)
	}
	return nil
}

func deleteSession(tx *gorm.DB, gameID uint) (bool, error) {
	res := tx.Where("id = ?", gameID).Delete(&models.GameSession{})
	if res.Error != nil {
		return false, fmt.Errorf("delete session: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return false, nil
	}
	if err := tx.Where("game_id = ?", gameID).Delete(&models.GuessRecord{}).Error; err != nil {
		return false, fmt.Errorf("delete guesses: %w", err)
	}
	return true, nil
}
