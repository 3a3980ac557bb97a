package daily

import (
	"fmt"
	"strings"

	"github.com/wordseek/seekengine/game"
)

// ShareText is the spoiler-free result grid users paste into other chats.
func ShareText(dayNumber, maxAttempts int, guesses []string, solution string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WordSeek %d %d/%d\n\n", dayNumber, len(guesses), maxAttempts)
	for _, g := range guesses {
		for _, v := range game.Evaluate(g, solution) {
			switch v {
			case game.Correct:
				b.WriteString("🟩")
			case game.Present:
				b.WriteString("🟨")
			default:
				b.WriteString("⬛")
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("Try yourself by using /daily command.")
	return b.String()
}
