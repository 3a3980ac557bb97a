package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
  "app": {"AppPort": "9000", "JWTSecret": "file-secret", "AdminUsers": ["1", "2"]},
  "database": {"Driver": "sqlite", "DBName": "seek"},
  "daily": {"Secret": "s", "CutoverHour": 0},
  "game": {"VoteQuorum": 5}
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_PORT", "9100")
	t.Setenv("ADMIN_USERS", "7,8,9")

	c, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.AppPort != "9100" {
		t.Fatalf("env should override file, got %s", c.AppPort)
	}
	if c.JWTSecret != "file-secret" {
		t.Fatalf("file value lost: %q", c.JWTSecret)
	}
	if len(c.AdminUsers) != 3 || c.AdminUsers[2] != "9" {
		t.Fatalf("admin users = %v", c.AdminUsers)
	}
	if c.VoteQuorum != 5 || c.VoteTTLSeconds != 300 {
		t.Fatalf("game settings = %d/%d", c.VoteQuorum, c.VoteTTLSeconds)
	}
	if c.DailyCutoverHour != 0 {
		t.Fatalf("explicit zero cutover replaced by %d", c.DailyCutoverHour)
	}
	if c.DSN() != "seek.db" {
		t.Fatalf("sqlite dsn = %q", c.DSN())
	}
}

func TestLoadFromDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DailyCutoverHour != 6 || c.DailyTimezone != "Asia/Kathmandu" || c.DailyMaxAttempts != 6 {
		t.Fatalf("daily defaults = %d %s %d", c.DailyCutoverHour, c.DailyTimezone, c.DailyMaxAttempts)
	}
	if c.MaxGuesses != 30 || c.HintAfter != 20 || c.RecentWindow != 200 {
		t.Fatalf("game defaults = %d %d %d", c.MaxGuesses, c.HintAfter, c.RecentWindow)
	}
	if c.DBDriver != "mysql" || c.DBPort != "3306" {
		t.Fatalf("db defaults = %s:%s", c.DBDriver, c.DBPort)
	}
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestOpenDatabaseSQLite(t *testing.T) {
	gdb, err := OpenDatabase(DatabaseOptions{Driver: "sqlite", DSN: "file::memory:", LogLevel: "silent", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	type widget struct {
		ID   uint
		Name string `gorm:"uniqueIndex"`
	}
	if err := Migrate(gdb, &widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate(gdb, &widget{}); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if _, err := OpenDatabase(DatabaseOptions{Driver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
