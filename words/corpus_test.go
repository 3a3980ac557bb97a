package words

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCorpus(t *testing.T) {
	c := Default()
	if c.Len() < 100 {
		t.Fatalf("expected a sizeable embedded corpus, got %d words", c.Len())
	}
	for _, w := range c.Words() {
		if !IsWellFormed(w) {
			t.Fatalf("embedded word %q is not well formed", w)
		}
	}
	if !c.Contains("ALLOT") {
		t.Fatalf("expected case-insensitive lookup to find allot")
	}
	if d, ok := c.Lookup("allot"); !ok || d.Meaning == "" {
		t.Fatalf("expected details for allot, got %#v %v", d, ok)
	}
}

func TestNewFiltersAndDeduplicates(t *testing.T) {
	c := New([]string{"Apple", "apple", "toolong", "ab1cd", " grape "}, map[string]Details{
		"lemon": {Meaning: "a sour fruit"},
	})
	want := []string{"apple", "grape", "lemon"}
	got := c.Words()
	if len(got) != len(want) {
		t.Fatalf("words = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("words = %v, want %v", got, want)
		}
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(txt, []byte("# comment\ncrane\n\nslate\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(txt)
	if err != nil {
		t.Fatalf("load txt: %v", err)
	}
	if c.Len() != 2 || c.At(0) != "crane" {
		t.Fatalf("unexpected txt corpus %v", c.Words())
	}

	arr := filepath.Join(dir, "list.json")
	if err := os.WriteFile(arr, []byte(`["crane","slate","trace"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(arr)
	if err != nil {
		t.Fatalf("load json array: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("unexpected json corpus %v", c.Words())
	}

	dict := filepath.Join(dir, "dict.json")
	if err := os.WriteFile(dict, []byte(`{"crane":{"meaning":"a bird"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(dict)
	if err != nil {
		t.Fatalf("load json dict: %v", err)
	}
	if d, ok := c.Lookup("crane"); !ok || d.Meaning != "a bird" {
		t.Fatalf("unexpected dict corpus %#v", d)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
