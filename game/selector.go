package game

import (
	"context"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/words"
)

// DefaultRecentWindow is how many of a chat's past words are avoided.
const DefaultRecentWindow = 200

// Selector picks the word for a new regular game.
type Selector struct {
	db     *gorm.DB
	corpus *words.Corpus
	window int
	intn   func(n int) int
}

func NewSelector(db *gorm.DB, corpus *words.Corpus, window int) *Selector {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	return &Selector{db: db, corpus: corpus, window: window, intn: rand.Intn}
}

// Select returns a uniformly random corpus word the chat has not played within
// the recent window. Once every word is recent the whole corpus is eligible
// again. Two concurrent calls for one chat may return the same word.
func (s *Selector) Select(ctx context.Context, chatID string) (string, error) {
	if s.corpus.Len() == 0 {
		return "", fmt.Errorf("select word: empty corpus")
	}
	recent, err := s.Recent(ctx, chatID)
	if err != nil {
		return "", err
	}
	used := make(map[string]struct{}, len(recent))
	for _, w := range recent {
		used[w] = struct{}{}
	}
	candidates := make([]string, 0, s.corpus.Len())
	for _, w := range s.corpus.Words() {
		if _, ok := used[w]; !ok {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return s.corpus.At(s.intn(s.corpus.Len())), nil
	}
	return candidates[s.intn(len(candidates))], nil
}

// Recent lists the chat's most recently used words, newest first.
func (s *Selector) Recent(ctx context.Context, chatID string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.UsedWord{}).
		Where("chat_id = ?", chatID).
		Order("id DESC").
		Limit(s.window).
		Pluck("word", &out).Error
	if err != nil {
		return nil, fmt.Errorf("load recent words: %w", err)
	}
	return out, nil
}

// rememberWord records word for chatID and trims history beyond window. It runs
// on the caller's transaction.
func rememberWord(tx *gorm.DB, chatID, word string, window int) error {
	if err := tx.Create(&models.UsedWord{ChatID: chatID, Word: word}).Error; err != nil {
		return fmt.Errorf("record used word: %w", err)
	}
	var ids []uint
	err := tx.Model(&models.UsedWord{}).
		Where("chat_id = ?", chatID).
		Order("id DESC").
		Offset(window).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("trim used words: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("chat_id = ? AND id <= ?", chatID, ids[0]).Delete(&models.UsedWord{}).Error; err != nil {
		return fmt.Errorf("trim used words: %w", err)
	}
	return nil
}
