package utils

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wordseek/seekengine/config"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", "telegram", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken("s3cret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Client != "telegram" {
		t.Fatalf("client = %q", claims.Client)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatalf("expected wrong secret to fail")
	}

	expired, _ := GenerateToken("s3cret", "telegram", -time.Minute)
	if _, err := ParseToken("s3cret", expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	anonymous, _ := GenerateToken("s3cret", "", time.Hour)
	if _, err := ParseToken("s3cret", anonymous); err == nil {
		t.Fatalf("expected token without client to fail")
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"<b>to give</b>  a share":        "to give a share",
		"<script>alert(1)</script>plain": "plain",
		"fish &amp; chips\n\tto go":      "fish & chips to go",
	}
	for in, want := range cases {
		if got := SanitizeText(in); got != want {
			t.Errorf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPuzzleWarmerRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{}, 8)
	StartPuzzleWarmer(ctx, 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("warmer ran %d times", calls.Load())
		}
	}
	cancel()
	time.Sleep(30 * time.Millisecond)
	n := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != n {
		t.Fatalf("warmer kept running after cancel")
	}
}

func TestServerShutsDownOnContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), time.Second, time.Second)
	var hooked atomic.Bool
	srv.OnShutdown(func() { hooked.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
	if !hooked.Load() {
		t.Fatalf("shutdown hook not run")
	}
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.log")
	log, err := InitLogger(config.AppConfig{LogLevel: "info", LogPath: path})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	log.Info("hello")
	_ = log.Sync()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("log file empty")
	}
	if Logger != log {
		t.Fatalf("global logger not replaced")
	}
}
