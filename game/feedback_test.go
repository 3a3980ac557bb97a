package game

import (
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		guess, solution string
		want            []Verdict
	}{
		{"allot", "lolly", []Verdict{Absent, Present, Correct, Present, Absent}},
		{"crane", "crane", []Verdict{Correct, Correct, Correct, Correct, Correct}},
		{"CRANE", "crane", []Verdict{Correct, Correct, Correct, Correct, Correct}},
		{"fight", "crane", []Verdict{Absent, Absent, Absent, Absent, Absent}},
		{"speed", "abide", []Verdict{Absent, Absent, Present, Absent, Present}},
		{"eerie", "there", []Verdict{Present, Absent, Present, Absent, Correct}},
		{"lolly", "allot", []Verdict{Present, Present, Correct, Absent, Absent}},
	}
	for _, tc := range cases {
		got := Evaluate(tc.guess, tc.solution)
		if len(got) != len(tc.want) {
			t.Fatalf("%s/%s: got %v", tc.guess, tc.solution, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s/%s: position %d = %v, want %v (full %v)", tc.guess, tc.solution, i, got[i], tc.want[i], got)
			}
		}
	}
}

// A letter is never marked Correct or Present more times than it occurs in the solution.
func TestEvaluateRespectsLetterCounts(t *testing.T) {
	words := []string{"allot", "lolly", "eerie", "there", "speed", "abide", "llama", "mamma", "geese", "sheep"}
	for _, g := range words {
		for _, s := range words {
			got := Evaluate(g, s)
			marked := map[byte]int{}
			for i, v := range got {
				if v != Absent {
					marked[g[i]]++
				}
				if (v == Correct) != (g[i] == s[i]) {
					t.Fatalf("%s/%s: position %d verdict %v disagrees with exact match", g, s, i, v)
				}
			}
			for ch, n := range marked {
				if n > strings.Count(s, string(ch)) {
					t.Fatalf("%s/%s: letter %c marked %d times", g, s, ch, n)
				}
			}
		}
	}
}

func TestRowRendering(t *testing.T) {
	r := NewRow("ALLOT", "lolly")
	if r.Solved() {
		t.Fatalf("allot should not solve lolly")
	}
	if got, want := r.String(), "🟥🟨🟩🟨🟥 ALLOT"; got != want {
		t.Fatalf("row = %q, want %q", got, want)
	}
	if !NewRow("lolly", "lolly").Solved() {
		t.Fatalf("identical words should solve")
	}
	board := Board([]Row{r, NewRow("lolly", "lolly")})
	if strings.Count(board, "\n") != 1 {
		t.Fatalf("unexpected board %q", board)
	}
}
