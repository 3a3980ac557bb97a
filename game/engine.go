package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/words"
)

// Rules are the tunables of a regular game.
type Rules struct {
	MaxGuesses int // non-winning guesses before the game is over
	ScoreBase  int // a win scores ScoreBase minus the guesses already made
	HintAfter  int // guesses after which the meaning is offered as a hint
}

// DefaultRules are the classic WordSeek numbers.
func DefaultRules() Rules {
	return Rules{MaxGuesses: 30, ScoreBase: 30, HintAfter: 20}
}

type StartRequest struct {
	ChatID  string
	UserID  string
	Private bool
}

type GuessRequest struct {
	ChatID    string
	UserID    string
	Guess     string
	Anonymous bool
	// TopicID is the forum topic the guess was sent in; empty outside forums.
	TopicID string
}

type GuessStatus string

const (
	StatusContinue GuessStatus = "continue"
	StatusWon      GuessStatus = "won"
	StatusGameOver GuessStatus = "game_over"
)

// GuessOutcome is what a chat adapter needs to answer a guess.
type GuessOutcome struct {
	Status   GuessStatus `json:"status"`
	Row      Row         `json:"row"`
	Board    []Row       `json:"board"`
	Guesses  int         `json:"guesses"`
	Solution string      `json:"solution,omitempty"`
	Winner   string      `json:"winner,omitempty"`
	Score    int         `json:"score,omitempty"`
	Hint     string      `json:"hint,omitempty"`
}

// Status describes the chat's current game, if any.
type Status struct {
	Active    bool       `json:"active"`
	StartedBy string     `json:"started_by,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Guesses   int        `json:"guesses"`
	Board     []Row      `json:"board,omitempty"`
}

// Engine runs regular games on top of the session store.
type Engine struct {
	store    *SessionStore
	selector *Selector
	corpus   *words.Corpus
	kv       cache.Store
	rules    Rules
	log      *zap.Logger
}

func NewEngine(store *SessionStore, selector *Selector, corpus *words.Corpus, kv cache.Store, rules Rules, log *zap.Logger) *Engine {
	def := DefaultRules()
	if rules.MaxGuesses <= 0 {
		rules.MaxGuesses = def.MaxGuesses
	}
	if rules.ScoreBase <= 0 {
		rules.ScoreBase = def.ScoreBase
	}
	if rules.HintAfter <= 0 {
		rules.HintAfter = def.HintAfter
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, selector: selector, corpus: corpus, kv: kv, rules: rules, log: log}
}

func (e *Engine) Store() *SessionStore { return e.store }

// StartGame opens a new round in the chat. In a private chat the user must not
// be in the middle of the daily puzzle.
func (e *Engine) StartGame(ctx context.Context, req StartRequest) (*models.GameSession, error) {
	if req.Private && req.UserID != "" {
		_, err := e.kv.Get(ctx, cache.DailyMarkerKey(req.UserID))
		switch {
		case err == nil:
			return nil, ErrDailyInProgress
		case !errors.Is(err, cache.ErrMiss):
			return nil, fmt.Errorf("check daily marker: %w", err)
		}
	}
	if _, err := e.store.Active(ctx, req.ChatID); err == nil {
		return nil, ErrAlreadyActive
	} else if !errors.Is(err, ErrNoActiveGame) {
		return nil, err
	}
	word, err := e.selector.Select(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	var startedBy *string
	if req.UserID != "" {
		startedBy = &req.UserID
	}
	sess, err := e.store.Start(ctx, req.ChatID, word, startedBy)
	if err != nil {
		return nil, err
	}
	// a vote that raced the end of the previous game must not carry over
	e.clearVote(ctx, req.ChatID)
	e.log.Info("game started", zap.String("chat_id", req.ChatID), zap.Uint("game_id", sess.ID))
	return sess, nil
}

// Guess evaluates one guess against the chat's game.
func (e *Engine) Guess(ctx context.Context, req GuessRequest) (*GuessOutcome, error) {
	guess := words.Normalize(req.Guess)
	if !words.IsWellFormed(guess) {
		return nil, ErrInvalidWord
	}
	banned, err := e.store.Banned(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrBanned
	}
	sess, err := e.store.Active(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if req.TopicID != "" {
		ok, err := e.store.TopicAllowed(ctx, req.ChatID, req.TopicID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrWrongTopic
		}
	}
	history, err := e.store.Guesses(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	board := make([]Row, 0, len(history)+1)
	for _, g := range history {
		board = append(board, NewRow(g.Guess, sess.Word))
	}
	if len(history) >= e.rules.MaxGuesses {
		return e.gameOver(ctx, sess, board, nil)
	}
	if !e.corpus.Contains(guess) {
		return nil, ErrInvalidWord
	}

	row := NewRow(guess, sess.Word)
	if guess == sess.Word {
		return e.win(ctx, sess, req, append(board, row), len(history))
	}

	if err := e.store.RecordGuess(ctx, sess.ID, guess, req.ChatID); err != nil {
		return nil, err
	}
	// concurrent guessers may have written since history was read; the cap is
	// decided on what is stored
	stored, err := e.store.Guesses(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	board = board[:0]
	mine := false
	for _, g := range stored {
		board = append(board, NewRow(g.Guess, sess.Word))
		mine = mine || g.Guess == guess
	}
	if !mine {
		// the game was closed, with its guesses, after this one was recorded
		return nil, ErrNoActiveGame
	}
	if len(board) >= e.rules.MaxGuesses {
		return e.gameOver(ctx, sess, board, &row)
	}
	out := &GuessOutcome{Status: StatusContinue, Row: row, Board: board, Guesses: len(board)}
	if len(board) >= e.rules.HintAfter {
		if d, ok := e.corpus.Lookup(sess.Word); ok && d.Meaning != "" {
			out.Hint = d.Meaning
		}
	}
	return out, nil
}

func (e *Engine) win(ctx context.Context, sess *models.GameSession, req GuessRequest, board []Row, prior int) (*GuessOutcome, error) {
	claimed, err := e.store.ClaimWin(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// someone else won or ended it first
		return nil, ErrNoActiveGame
	}
	e.clearVote(ctx, sess.ChatID)

	out := &GuessOutcome{
		Status:   StatusWon,
		Row:      board[len(board)-1],
		Board:    board,
		Guesses:  len(board),
		Solution: sess.Word,
	}
	if req.Anonymous || req.UserID == "" {
		e.log.Info("game won anonymously", zap.String("chat_id", sess.ChatID), zap.Uint("game_id", sess.ID))
		return out, nil
	}
	out.Winner = req.UserID
	out.Score = e.rules.ScoreBase - prior
	if out.Score < 0 {
		out.Score = 0
	}
	if err := e.store.AddScore(ctx, req.UserID, sess.ChatID, out.Score); err != nil {
		// the game is already over; losing the score must not undo that
		e.log.Error("record score failed", zap.String("chat_id", sess.ChatID), zap.String("user_id", req.UserID), zap.Error(err))
	}
	e.log.Info("game won",
		zap.String("chat_id", sess.ChatID),
		zap.Uint("game_id", sess.ID),
		zap.String("user_id", req.UserID),
		zap.Int("score", out.Score))
	return out, nil
}

func (e *Engine) gameOver(ctx context.Context, sess *models.GameSession, board []Row, last *Row) (*GuessOutcome, error) {
	closed, err := e.store.Close(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrNoActiveGame
	}
	e.clearVote(ctx, sess.ChatID)
	e.log.Info("game over", zap.String("chat_id", sess.ChatID), zap.Uint("game_id", sess.ID), zap.Int("guesses", len(board)))
	out := &GuessOutcome{Status: StatusGameOver, Board: board, Guesses: len(board), Solution: sess.Word}
	if last != nil {
		out.Row = *last
	}
	return out, nil
}

func (e *Engine) clearVote(ctx context.Context, chatID string) {
	if err := e.kv.Delete(ctx, cache.EndVoteKey(chatID)); err != nil {
		e.log.Warn("clear end vote failed", zap.String("chat_id", chatID), zap.Error(err))
	}
}

// Status reports whether chatID has a regular game and how far it has gone.
func (e *Engine) Status(ctx context.Context, chatID string) (*Status, error) {
	sess, err := e.store.Active(ctx, chatID)
	if errors.Is(err, ErrNoActiveGame) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}
	history, err := e.store.Guesses(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	st := &Status{Active: true, StartedAt: &sess.CreatedAt, Guesses: len(history)}
	if sess.StartedBy != nil {
		st.StartedBy = *sess.StartedBy
	}
	for _, g := range history {
		st.Board = append(st.Board, NewRow(g.Guess, sess.Word))
	}
	return st, nil
}

// HasActiveGame is the narrow check the daily engine needs.
func (e *Engine) HasActiveGame(ctx context.Context, chatID string) (bool, error) {
	_, err := e.store.Active(ctx, chatID)
	if errors.Is(err, ErrNoActiveGame) {
		return false, nil
	}
	return err == nil, err
}
