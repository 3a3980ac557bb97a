package daily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/words"
)

const (
	DefaultMaxAttempts = 6
	markerTTL          = 24 * time.Hour
	attemptRetries     = 3
)

// RegularGames is the slice of the regular engine the daily engine consults.
type RegularGames interface {
	HasActiveGame(ctx context.Context, chatID string) (bool, error)
}

// Options configures an Engine.
type Options struct {
	Secret        string
	MaxAttempts   int
	EnrichTimeout time.Duration
}

// Engine serves the daily puzzle.
type Engine struct {
	db       *gorm.DB
	corpus   *words.Corpus
	deriver  *Deriver
	cal      *Calendar
	kv       cache.Store
	games    RegularGames
	enricher Enricher
	max      int
	timeout  time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewEngine wires the daily engine. enricher and games may be nil.
func NewEngine(db *gorm.DB, corpus *words.Corpus, cal *Calendar, kv cache.Store, games RegularGames, enricher Enricher, opts Options, log *zap.Logger) *Engine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = 3 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		db:       db,
		corpus:   corpus,
		deriver:  NewDeriver(corpus.Words(), opts.Secret),
		cal:      cal,
		kv:       kv,
		games:    games,
		enricher: enricher,
		max:      opts.MaxAttempts,
		timeout:  opts.EnrichTimeout,
		log:      log,
		now:      time.Now,
	}
}

// Today is the current game date.
func (e *Engine) Today() string { return e.cal.GameDate(e.now()) }

func (e *Engine) MaxAttempts() int { return e.max }

// EnsurePuzzle returns the puzzle of date, creating it on first use. Concurrent
// creators converge on one row through the unique date index.
func (e *Engine) EnsurePuzzle(ctx context.Context, date string) (*models.DailyPuzzle, error) {
	if p, err := e.puzzleByDate(ctx, date); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrNoPuzzle) {
		return nil, err
	}

	d, err := e.cal.DayIndex(date)
	if err != nil {
		return nil, err
	}
	word := e.deriver.WordForDay(d)
	if word == "" {
		return nil, ErrNoPuzzle
	}
	p := &models.DailyPuzzle{DayNumber: d + 1, Word: word, Date: date}
	e.attachDetails(ctx, p)

	if err := e.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create daily puzzle: %w", err)
	}
	stored, err := e.puzzleByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	e.log.Info("daily puzzle ready", zap.String("date", date), zap.Int("day", stored.DayNumber))
	return stored, nil
}

// attachDetails fills meaning, phonetic and example from the enricher, falling
// back to the corpus dictionary. Failure only costs the details.
func (e *Engine) attachDetails(ctx context.Context, p *models.DailyPuzzle) {
	if e.enricher != nil {
		ectx, cancel := context.WithTimeout(ctx, e.timeout)
		d, err := e.enricher.Enrich(ectx, p.Word)
		cancel()
		if err == nil {
			p.Meaning, p.Phonetic, p.Example = optional(d.Meaning), optional(d.Phonetic), optional(d.Example)
			return
		}
		e.log.Warn("enrichment failed", zap.String("date", p.Date), zap.Error(err))
	}
	if d, ok := e.corpus.Lookup(p.Word); ok {
		p.Meaning, p.Phonetic, p.Example = optional(d.Meaning), optional(d.Pronunciation), optional(d.Example)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (e *Engine) puzzleByDate(ctx context.Context, date string) (*models.DailyPuzzle, error) {
	var p models.DailyPuzzle
	err := e.db.WithContext(ctx).Where("date = ?", date).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPuzzle
	}
	if err != nil {
		return nil, fmt.Errorf("load daily puzzle: %w", err)
	}
	return &p, nil
}

type OutcomeStatus string

const (
	OutcomeContinue OutcomeStatus = "continue"
	OutcomeWin      OutcomeStatus = "win"
	OutcomeLoss     OutcomeStatus = "loss"
)

// Outcome is the result of one daily guess. Solution, Streak and Share are set
// only once the puzzle is finished.
type Outcome struct {
	Status       OutcomeStatus       `json:"status"`
	DayNumber    int                 `json:"day_number"`
	Row          game.Row            `json:"row"`
	Board        []game.Row          `json:"board"`
	AttemptsLeft int                 `json:"attempts_left"`
	Solution     string              `json:"solution,omitempty"`
	Streak       *models.UserStreak  `json:"streak,omitempty"`
	Share        string              `json:"share,omitempty"`
	Puzzle       *models.DailyPuzzle `json:"puzzle,omitempty"`
}

var errAttemptRace = errors.New("attempt number taken")

// SubmitGuess records userID's guess against today's puzzle.
func (e *Engine) SubmitGuess(ctx context.Context, userID, guess string) (*Outcome, error) {
	guess = words.Normalize(guess)
	if !words.IsWellFormed(guess) || !e.corpus.Contains(guess) {
		return nil, ErrInvalidWord
	}
	banned, err := game.IsBanned(e.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrBanned
	}
	date := e.Today()
	p, err := e.EnsurePuzzle(ctx, date)
	if err != nil {
		return nil, err
	}

	for try := 0; try < attemptRetries; try++ {
		out, err := e.submit(ctx, p, userID, guess, date)
		if errors.Is(err, errAttemptRace) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if out.Status != OutcomeContinue {
			e.clearMarker(ctx, userID)
			e.log.Info("daily finished",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.String("status", string(out.Status)),
				zap.Int("attempts", len(out.Board)))
		}
		return out, nil
	}
	return nil, fmt.Errorf("record daily attempt: %w", errAttemptRace)
}

func (e *Engine) submit(ctx context.Context, p *models.DailyPuzzle, userID, guess, date string) (*Outcome, error) {
	var out *Outcome
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := attempts(tx, userID, p.ID)
		if err != nil {
			return err
		}
		if err := e.checkOpen(prior, p.Word); err != nil {
			return err
		}
		for _, a := range prior {
			if a.Guess == guess {
				return ErrDuplicateGuess
			}
		}
		rec := &models.DailyAttempt{UserID: userID, DailyPuzzleID: p.ID, Guess: guess, AttemptNumber: len(prior) + 1}
		if err := tx.Create(rec).Error; err != nil {
			if game.IsUniqueViolation(err) {
				return errAttemptRace
			}
			return fmt.Errorf("create daily attempt: %w", err)
		}
		all := append(prior, *rec)

		out = &Outcome{
			Status:       OutcomeContinue,
			DayNumber:    p.DayNumber,
			Row:          game.NewRow(guess, p.Word),
			Board:        rows(all, p.Word),
			AttemptsLeft: e.max - len(all),
		}
		won := guess == p.Word
		if !won && len(all) < e.max {
			return nil
		}
		streak, err := recordResult(tx, userID, date, won)
		if err != nil {
			return err
		}
		out.Status = OutcomeLoss
		if won {
			out.Status = OutcomeWin
		}
		out.Solution = p.Word
		out.Streak = streak
		out.Puzzle = p
		out.Share = ShareText(p.DayNumber, e.max, guesses(all), p.Word)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkOpen reports whether more guesses are allowed after prior.
func (e *Engine) checkOpen(prior []models.DailyAttempt, solution string) error {
	for _, a := range prior {
		if a.Guess == solution {
			return ErrAlreadySolved
		}
	}
	if len(prior) >= e.max {
		return &AttemptLimitError{Solution: solution}
	}
	return nil
}

func attempts(tx *gorm.DB, userID string, puzzleID uint) ([]models.DailyAttempt, error) {
	var out []models.DailyAttempt
	err := tx.Where("user_id = ? AND daily_puzzle_id = ?", userID, puzzleID).
		Order("attempt_number ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load daily attempts: %w", err)
	}
	return out, nil
}

func rows(all []models.DailyAttempt, solution string) []game.Row {
	out := make([]game.Row, len(all))
	for i, a := range all {
		out[i] = game.NewRow(a.Guess, solution)
	}
	return out
}

func guesses(all []models.DailyAttempt) []string {
	out := make([]string, len(all))
	for i, a := range all {
		out[i] = a.Guess
	}
	return out
}

// Marker is stored while a user is playing the daily puzzle in their private chat.
type Marker struct {
	DailyPuzzleID uint      `json:"dailyPuzzleId"`
	Date          string    `json:"date"`
	StartedAt     time.Time `json:"startedAt"`
}

// Session is what Start and InProgress report.
type Session struct {
	DayNumber    int        `json:"day_number"`
	Date         string     `json:"date"`
	Board        []game.Row `json:"board"`
	AttemptsLeft int        `json:"attempts_left"`
	StartedAt    time.Time  `json:"started_at"`
}

// Start begins (or resumes) today's puzzle for userID. The user's private chat
// must not have a regular game running.
func (e *Engine) Start(ctx context.Context, userID string) (*Session, error) {
	if e.games != nil {
		active, err := e.games.HasActiveGame(ctx, userID)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, ErrRegularGameActive
		}
	}
	date := e.Today()
	p, err := e.EnsurePuzzle(ctx, date)
	if err != nil {
		return nil, err
	}
	prior, err := attempts(e.db.WithContext(ctx), userID, p.ID)
	if err != nil {
		return nil, err
	}
	if err := e.checkOpen(prior, p.Word); err != nil {
		return nil, err
	}

	m := Marker{DailyPuzzleID: p.ID, Date: date, StartedAt: e.now().UTC()}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := e.kv.Set(ctx, cache.DailyMarkerKey(userID), raw, markerTTL); err != nil {
		return nil, fmt.Errorf("set daily marker: %w", err)
	}
	return &Session{
		DayNumber:    p.DayNumber,
		Date:         date,
		Board:        rows(prior, p.Word),
		AttemptsLeft: e.max - len(prior),
		StartedAt:    m.StartedAt,
	}, nil
}

// Pause drops the marker; recorded attempts still count when the user resumes.
func (e *Engine) Pause(ctx context.Context, userID string) error {
	if _, err := e.marker(ctx, userID); err != nil {
		return err
	}
	e.clearMarker(ctx, userID)
	return nil
}

// InProgress returns the user's running daily game. A marker left over from an
// earlier game date is removed and reported as ErrDailyExpired.
func (e *Engine) InProgress(ctx context.Context, userID string) (*Session, error) {
	m, err := e.marker(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m.Date != e.Today() {
		e.clearMarker(ctx, userID)
		return nil, ErrDailyExpired
	}
	var p models.DailyPuzzle
	if err := e.db.WithContext(ctx).First(&p, m.DailyPuzzleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.clearMarker(ctx, userID)
			return nil, ErrNoPuzzle
		}
		return nil, fmt.Errorf("load daily puzzle: %w", err)
	}
	prior, err := attempts(e.db.WithContext(ctx), userID, p.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		DayNumber:    p.DayNumber,
		Date:         p.Date,
		Board:        rows(prior, p.Word),
		AttemptsLeft: e.max - len(prior),
		StartedAt:    m.StartedAt,
	}, nil
}

func (e *Engine) marker(ctx context.Context, userID string) (*Marker, error) {
	raw, err := e.kv.Get(ctx, cache.DailyMarkerKey(userID))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotPlaying
	}
	if err != nil {
		return nil, fmt.Errorf("load daily marker: %w", err)
	}
	var m Marker
	if err := json.Unmarshal(raw, &m); err != nil {
		// unreadable markers are treated as gone
		e.clearMarker(ctx, userID)
		return nil, ErrNotPlaying
	}
	return &m, nil
}

func (e *Engine) clearMarker(ctx context.Context, userID string) {
	if err := e.kv.Delete(ctx, cache.DailyMarkerKey(userID)); err != nil {
		e.log.Warn("clear daily marker failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Streak returns the user's streak; users who never finished a puzzle get zeros.
func (e *Engine) Streak(ctx context.Context, userID string) (*models.UserStreak, error) {
	var s models.UserStreak
	err := e.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	return &s, nil
}
