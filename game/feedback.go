// Package game implements the regular per-chat WordSeek round: feedback, word
// selection, the session store with its single-winner claim and the end-game
// authority.
package game

import (
	"fmt"
	"strings"
)

// Verdict is the per-letter result of comparing a guess with the solution.
type Verdict int

const (
	Absent Verdict = iota
	Present
	Correct
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// Emoji renders the verdict the way chat clients show it.
func (v Verdict) Emoji() string {
	switch v {
	case Correct:
		return "🟩"
	case Present:
		return "🟨"
	default:
		return "🟥"
	}
}

// MarshalText lets verdicts travel as their names in JSON.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "correct":
		*v = Correct
	case "present":
		*v = Present
	case "absent":
		*v = Absent
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Evaluate compares guess against solution. Both must already be five-letter
// words; case is ignored. Exact matches consume letter counts first, then the
// remaining positions are marked Present left to right while the solution still
// has an unused copy of that letter.
func Evaluate(guess, solution string) []Verdict {
	g := strings.ToLower(guess)
	s := strings.ToLower(solution)
	n := len(g)
	if len(s) < n {
		n = len(s)
	}

	out := make([]Verdict, len(g))
	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	for i := 0; i < n; i++ {
		if g[i] == s[i] {
			out[i] = Correct
			counts[g[i]]--
		}
	}
	for i := 0; i < len(g); i++ {
		if out[i] == Correct {
			continue
		}
		if counts[g[i]] > 0 {
			out[i] = Present
			counts[g[i]]--
		}
	}
	return out
}

// Row pairs a guess with its verdicts.
type Row struct {
	Guess    string    `json:"guess"`
	Verdicts []Verdict `json:"verdicts"`
}

// NewRow evaluates guess against solution.
func NewRow(guess, solution string) Row {
	return Row{Guess: strings.ToLower(guess), Verdicts: Evaluate(guess, solution)}
}

// Solved reports whether every letter is Correct.
func (r Row) Solved() bool {
	if len(r.Verdicts) == 0 {
		return false
	}
	for _, v := range r.Verdicts {
		if v != Correct {
			return false
		}
	}
	return true
}

// Squares is the emoji strip without the word.
func (r Row) Squares() string {
	var b strings.Builder
	for _, v := range r.Verdicts {
		b.WriteString(v.Emoji())
	}
	return b.String()
}

func (r Row) String() string {
	return r.Squares() + " " + strings.ToUpper(r.Guess)
}

// Board renders rows one per line, as sent back to the chat.
func Board(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}
