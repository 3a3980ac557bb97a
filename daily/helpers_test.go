package daily

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/config"
	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/words"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := config.OpenDatabase(config.DatabaseOptions{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		LogLevel:     "silent",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(gdb, models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func userStreak(current, highest int, last *string) models.UserStreak {
	return models.UserStreak{UserID: "u", CurrentStreak: current, HighestStreak: highest, LastGuessedDate: last}
}

// The test secret shuffles this corpus to
// trace allot grape crane lolly slate lemon plant (day 0..7).
var testWords = []string{"crane", "slate", "lolly", "allot", "trace", "plant", "grape", "lemon"}

const testSecret = "test-secret"

type fakeGames struct{ active map[string]bool }

func (f fakeGames) HasActiveGame(_ context.Context, chatID string) (bool, error) {
	return f.active[chatID], nil
}

type fakeEnricher struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeEnricher) Enrich(_ context.Context, word string) (*WordDetails, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return nil, ErrEnrichmentUnavailable
	}
	return &WordDetails{Meaning: "meaning of " + word, Phonetic: "/" + word + "/"}, nil
}

type fixture struct {
	db     *gorm.DB
	kv     *cache.MemoryStore
	engine *Engine
	games  fakeGames
	clock  time.Time
}

var kathmandu, _ = time.LoadLocation("Asia/Kathmandu")

// at returns 07:00 Kathmandu time on the given date.
func at(date string) time.Time {
	d, _ := time.ParseInLocation(DateLayout, date, kathmandu)
	return d.Add(7 * time.Hour)
}

func newFixture(t *testing.T, enricher Enricher) *fixture {
	t.Helper()
	cal, err := NewCalendar("Asia/Kathmandu", 6, "2025-11-28")
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{db: newTestDB(t), kv: cache.NewMemory(), games: fakeGames{active: map[string]bool{}}}
	corpus := words.New(testWords, map[string]words.Details{"lolly": {Meaning: "a lollipop", Pronunciation: "LOL-ee"}})
	f.engine = NewEngine(f.db, corpus, cal, f.kv, f.games, enricher, Options{Secret: testSecret}, zap.NewNop())
	f.setDate("2025-12-02")
	return f
}

func (f *fixture) setDate(date string) {
	now := at(date)
	f.engine.now = func() time.Time { return now }
}

func mustSubmit(t *testing.T, f *fixture, user, guess string) *Outcome {
	t.Helper()
	out, err := f.engine.SubmitGuess(context.Background(), user, guess)
	if err != nil {
		t.Fatalf("submit %s: %v", guess, err)
	}
	return out
}

func isNotPlaying(err error) bool { return errors.Is(err, ErrNotPlaying) }
