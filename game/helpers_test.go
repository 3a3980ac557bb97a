package game

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/config"
	"github.com/wordseek/seekengine/models"
	"github.com/wordseek/seekengine/words"
)

// newTestDB opens a private in-memory SQLite database. One connection means
// concurrent transactions queue instead of failing with "database is locked".
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

var testWords = []string{"crane", "slate", "lolly", "allot", "trace", "plant", "grape", "lemon"}

func testCorpus() *words.Corpus {
	return words.New(testWords, map[string]words.Details{
		"lolly": {Meaning: "a lollipop"},
	})
}

type fixture struct {
	db        *gorm.DB
	kv        *cache.MemoryStore
	store     *SessionStore
	engine    *Engine
	authority *Authority
}

func newFixture(t *testing.T, rules Rules) *fixture {
	t.Helper()
	gdb := newTestDB(t)
	kv := cache.NewMemory()
	store := NewSessionStore(gdb, 0)
	sel := NewSelector(gdb, testCorpus(), 0)
	return &fixture{
		db:        gdb,
		kv:        kv,
		store:     store,
		engine:    NewEngine(store, sel, testCorpus(), kv, rules, zap.NewNop()),
		authority: NewAuthority(gdb, store, kv, []string{"root"}, 0, 0, zap.NewNop()),
	}
}

func strPtr(s string) *string { return &s }
