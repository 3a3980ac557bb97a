// Package words holds the five-letter corpus shared by the regular game and the daily puzzle.
package words

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Length is the only word length the game accepts.
const Length = 5

//go:embed data/words.txt
var defaultWords []byte

//go:embed data/common.json
var defaultDetails []byte

// Details carries the optional dictionary data for a word.
type Details struct {
	Meaning       string `json:"meaning"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
}

// Corpus is an immutable, ordered list of valid words. Order matters: the daily
// permutation is computed over it, so the same file must yield the same slice.
type Corpus struct {
	words   []string
	set     map[string]struct{}
	details map[string]Details
}

// New builds a corpus from raw words, normalizing case and dropping anything that is
// not a five-letter a-z word. Duplicates keep their first position.
func New(list []string, details map[string]Details) *Corpus {
	c := &Corpus{
		words:   make([]string, 0, len(list)),
		set:     make(map[string]struct{}, len(list)),
		details: map[string]Details{},
	}
	for _, w := range list {
		w = Normalize(w)
		if !IsWellFormed(w) {
			continue
		}
		if _, dup := c.set[w]; dup {
			continue
		}
		c.set[w] = struct{}{}
		c.words = append(c.words, w)
	}
	var extra []string
	for w, d := range details {
		w = Normalize(w)
		if !IsWellFormed(w) {
			continue
		}
		c.details[w] = d
		if _, ok := c.set[w]; !ok {
			extra = append(extra, w)
		}
	}
	// words that only appear in the dictionary are still playable; sorted so map
	// iteration order never leaks into the corpus order
	sort.Strings(extra)
	for _, w := range extra {
		if _, dup := c.set[w]; dup {
			continue
		}
		c.set[w] = struct{}{}
		c.words = append(c.words, w)
	}
	return c
}

// Default returns the corpus compiled into the binary.
func Default() *Corpus {
	c, err := parse(defaultWords, defaultDetails)
	if err != nil {
		// embedded data is fixed at build time
		panic(fmt.Sprintf("words: embedded corpus invalid: %v", err))
	}
	return c
}

// Load reads a corpus from path. A .json file may be either an array of words or an
// object keyed by word with Details values; anything else is one word per line.
// An empty path returns Default().
func Load(path string) (*Corpus, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return New(list, nil), nil
		}
		return parse(nil, raw)
	}
	return parse(raw, nil)
}

func parse(lines, details []byte) (*Corpus, error) {
	var list []string
	sc := bufio.NewScanner(bytes.NewReader(lines))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			list = append(list, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	var dict map[string]Details
	if len(details) > 0 {
		if err := json.Unmarshal(details, &dict); err != nil {
			return nil, fmt.Errorf("decode word details: %w", err)
		}
	}
	return New(list, dict), nil
}

// Words returns a copy of the ordered word list.
func (c *Corpus) Words() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

// Len is the number of playable words.
func (c *Corpus) Len() int { return len(c.words) }

// At returns the i-th word of the ordered list.
func (c *Corpus) At(i int) string { return c.words[i] }

// Contains reports whether w (any case) is a playable word.
func (c *Corpus) Contains(w string) bool {
	_, ok := c.set[Normalize(w)]
	return ok
}

// Lookup returns dictionary details for w, if any.
func (c *Corpus) Lookup(w string) (Details, bool) {
	d, ok := c.details[Normalize(w)]
	return d, ok
}

// Normalize lower-cases and trims a word.
func Normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// IsWellFormed reports whether w is exactly five ASCII lower-case letters.
func IsWellFormed(w string) bool {
	if len(w) != Length {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
