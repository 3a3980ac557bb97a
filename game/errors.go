package game

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyActive        = errors.New("a game is already active in this chat")
	ErrNoActiveGame         = errors.New("no active game in this chat")
	ErrDuplicateGuess       = errors.New("word already guessed")
	ErrInvalidWord          = errors.New("not a valid word")
	ErrAttemptLimitExceeded = errors.New("guess limit reached")
	ErrVoteExpired          = errors.New("no live end vote")
	ErrAlreadyVoted         = errors.New("already voted to end this game")
	ErrAlreadyAuthorized    = errors.New("user is already authorized")
	ErrNotAuthorized        = errors.New("user is not authorized")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrDailyInProgress      = errors.New("daily puzzle in progress")
	ErrBanned               = errors.New("user is banned")
	ErrAlreadyBanned        = errors.New("user is already banned")
	ErrNotBanned            = errors.New("user is not banned")
	ErrWrongTopic           = errors.New("guess is outside the game topic")
	ErrTopicAlreadySet      = errors.New("topic is already set for the game")
	ErrTopicNotSet          = errors.New("topic is not set for the game")
)

// IsUniqueViolation reports whether err came from a unique index. Drivers that
// do not translate errors are matched on their message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505")
}
