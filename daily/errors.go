package daily

import (
	"errors"

	"github.com/wordseek/seekengine/game"
)

// Shared with the regular game so callers can match either engine's errors.
var (
	ErrInvalidWord          = game.ErrInvalidWord
	ErrDuplicateGuess       = game.ErrDuplicateGuess
	ErrAttemptLimitExceeded = game.ErrAttemptLimitExceeded
	ErrBanned               = game.ErrBanned
)

var (
	ErrAlreadySolved     = errors.New("today's puzzle is already solved")
	ErrRegularGameActive = errors.New("a regular game is active in this chat")
	ErrDailyExpired      = errors.New("daily game belongs to a previous day")
	ErrNotPlaying        = errors.New("no daily game in progress")
	ErrNoPuzzle          = errors.New("daily puzzle not available")
)

// AttemptLimitError is ErrAttemptLimitExceeded carrying the revealed solution.
type AttemptLimitError struct {
	Solution string
}

func (e *AttemptLimitError) Error() string {
	return ErrAttemptLimitExceeded.Error()
}

func (e *AttemptLimitError) Is(target error) bool {
	return target == ErrAttemptLimitExceeded
}
