package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/models"
)

func startWith(t *testing.T, f *fixture, chatID, word, userID string) *models.GameSession {
	t.Helper()
	sess, err := f.store.Start(context.Background(), chatID, word, strPtr(userID))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return sess
}

func TestStartGame(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()

	sess, err := f.engine.StartGame(ctx, StartRequest{ChatID: "g1", UserID: "u1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !testCorpus().Contains(sess.Word) {
		t.Fatalf("selected %q outside the corpus", sess.Word)
	}
	if _, err := f.engine.StartGame(ctx, StartRequest{ChatID: "g1", UserID: "u2"}); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second start: %v", err)
	}

	st, err := f.engine.Status(ctx, "g1")
	if err != nil || !st.Active || st.StartedBy != "u1" {
		t.Fatalf("status = %+v %v", st, err)
	}
	st, _ = f.engine.Status(ctx, "nobody")
	if st.Active {
		t.Fatalf("expected inactive status")
	}
}

func TestStartGameBlockedByDailyMarker(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()
	_ = f.kv.Set(ctx, cache.DailyMarkerKey("u1"), []byte(`{}`), 0)

	if _, err := f.engine.StartGame(ctx, StartRequest{ChatID: "u1", UserID: "u1", Private: true}); !errors.Is(err, ErrDailyInProgress) {
		t.Fatalf("expected daily in progress, got %v", err)
	}
	// group chats are not affected by the marker
	if _, err := f.engine.StartGame(ctx, StartRequest{ChatID: "g1", UserID: "u1"}); err != nil {
		t.Fatalf("group start: %v", err)
	}
}

func TestGuessFlow(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()
	startWith(t, f, "g1", "lolly", "u1")

	if _, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "ab"}); !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("short guess: %v", err)
	}
	if _, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "zzzzz"}); !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("unknown word: %v", err)
	}

	out, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "ALLOT"})
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if out.Status != StatusContinue || out.Guesses != 1 || out.Row.Squares() != "🟥🟨🟩🟨🟥" {
		t.Fatalf("outcome = %+v", out)
	}
	if _, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u3", Guess: "allot"}); !errors.Is(err, ErrDuplicateGuess) {
		t.Fatalf("duplicate: %v", err)
	}
	_ = f.kv.Set(ctx, cache.EndVoteKey("g1"), []byte("x"), 0)

	out, err = f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u3", Guess: "lolly"})
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if out.Status != StatusWon || out.Winner != "u3" || out.Score != 29 || out.Solution != "lolly" || len(out.Board) != 2 {
		t.Fatalf("win outcome = %+v", out)
	}
	var scores []models.ScoreEntry
	f.db.Find(&scores)
	if len(scores) != 1 || scores[0].UserID != "u3" || scores[0].Score != 29 {
		t.Fatalf("scores = %+v", scores)
	}
	if _, err := f.kv.Get(ctx, cache.EndVoteKey("g1")); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("vote should be cleared on win")
	}
	if _, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u3", Guess: "lolly"}); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("guess after win: %v", err)
	}
}

func TestAnonymousWinIsNotScored(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()
	startWith(t, f, "g1", "crane", "u1")

	out, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", Guess: "crane", Anonymous: true})
	if err != nil || out.Status != StatusWon || out.Winner != "" {
		t.Fatalf("anonymous win = %+v %v", out, err)
	}
	var n int64
	f.db.Model(&models.ScoreEntry{}).Count(&n)
	if n != 0 {
		t.Fatalf("anonymous win recorded %d scores", n)
	}
}

func TestConcurrentWinningGuessesScoreOnce(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()
	startWith(t, f, "g1", "crane", "u0")

	const n = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	won, lost := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: fmt.Sprintf("u%d", i), Guess: "crane"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && out.Status == StatusWon:
				won++
			case errors.Is(err, ErrNoActiveGame):
				lost++
			default:
				t.Errorf("unexpected result %+v %v", out, err)
			}
		}(i)
	}
	wg.Wait()
	if won != 1 || lost != n-1 {
		t.Fatalf("won=%d lost=%d", won, lost)
	}
	var scores int64
	f.db.Model(&models.ScoreEntry{}).Count(&scores)
	if scores != 1 {
		t.Fatalf("%d score rows, want 1", scores)
	}
}

func TestGuessCapEndsGame(t *testing.T) {
	f := newFixture(t, Rules{MaxGuesses: 3, HintAfter: 2})
	ctx := context.Background()
	startWith(t, f, "g1", "lolly", "u1")

	out, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "crane"})
	if err != nil || out.Hint != "" {
		t.Fatalf("first guess = %+v %v", out, err)
	}
	out, err = f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "slate"})
	if err != nil || out.Hint != "a lollipop" {
		t.Fatalf("second guess should carry a hint: %+v %v", out, err)
	}
	out, err = f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "trace"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusGameOver || out.Solution != "lolly" || out.Guesses != 3 {
		t.Fatalf("cap outcome = %+v", out)
	}
	if _, err := f.store.Active(ctx, "g1"); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("game should be closed at the cap")
	}
}

func TestSessionAlreadyAtCapClosesOnNextGuess(t *testing.T) {
	f := newFixture(t, Rules{MaxGuesses: 2})
	ctx := context.Background()
	sess := startWith(t, f, "g1", "lolly", "u1")
	// guesses recorded directly, as a crashed process might have left them
	_ = f.store.RecordGuess(ctx, sess.ID, "crane", "g1")
	_ = f.store.RecordGuess(ctx, sess.ID, "slate", "g1")

	out, err := f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: "u2", Guess: "lolly"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusGameOver || out.Solution != "lolly" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestConcurrentGuessesReachingCapEndGame(t *testing.T) {
	f := newFixture(t, Rules{MaxGuesses: 2})
	ctx := context.Background()
	startWith(t, f, "g1", "lolly", "u1")

	// widen the window between reading the history and recording the guess
	err := f.db.Callback().Query().After("gorm:query").Register("test:slow_guess_reads", func(tx *gorm.DB) {
		if tx.Statement.Table == "guess_records" {
			time.Sleep(50 * time.Millisecond)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	outs := make([]*GuessOutcome, 2)
	errs := make([]error, 2)
	for i, w := range []string{"crane", "slate"} {
		wg.Add(1)
		go func(i int, w string) {
			defer wg.Done()
			outs[i], errs[i] = f.engine.Guess(ctx, GuessRequest{ChatID: "g1", UserID: fmt.Sprintf("p%d", i), Guess: w})
		}(i, w)
	}
	wg.Wait()

	over := 0
	for i := range outs {
		switch {
		case errs[i] != nil:
			if !errors.Is(errs[i], ErrNoActiveGame) {
				t.Fatalf("guess %d: %v", i, errs[i])
			}
		case outs[i].Status == StatusGameOver:
			over++
			if outs[i].Solution != "lolly" || outs[i].Guesses != 2 {
				t.Fatalf("game over outcome = %+v", outs[i])
			}
		}
	}
	if over != 1 {
		t.Fatalf("%d callers saw game over, want 1 (errs %v)", over, errs)
	}
	if _, err := f.store.Active(ctx, "g1"); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("game should be closed once the stored guesses reach the cap")
	}
}

func TestStartGameDropsLeftoverVote(t *testing.T) {
	f := newFixture(t, Rules{})
	ctx := context.Background()
	// a vote that landed just after the previous game ended
	if _, _, err := f.kv.AddToSet(ctx, cache.EndVoteKey("g1"), "late", time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.StartGame(ctx, StartRequest{ChatID: "g1", UserID: "u1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.authority.Tally(ctx, "g1"); !errors.Is(err, ErrVoteExpired) {
		t.Fatalf("leftover vote survived the new game: %v", err)
	}
	out, err := f.authority.RequestEnd(ctx, EndRequest{ChatID: "g1", UserID: "a"})
	if err != nil || out.Ended || len(out.Vote.Voters) != 1 {
		t.Fatalf("first vote of new game = %+v %v", out, err)
	}
}
