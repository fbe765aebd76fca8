package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kobzarvs/prompt/internal/config"
)

func TestNewUnknownType(t *testing.T) {
	if c := New(nil); c != nil {
		t.Fatalf("New(nil) = %v, want nil", c)
	}
	if c := New(&config.Validator{Type: "bogus"}); c != nil {
		t.Fatalf("New(bogus) = %v, want nil", c)
	}
}

func TestChoiceCycle(t *testing.T) {
	c := New(&config.Validator{Type: "choice", Options: []string{"0", "1", "2", "3"}})
	if got := c.Next("1"); got != "2" {
		t.Fatalf("Next(1) = %q, want 2", got)
	}
	if got := c.Next("3"); got != "0" {
		t.Fatalf("Next(3) = %q, want 0 (wrap)", got)
	}
	if got := c.Next("x"); got != "0" {
		t.Fatalf("Next(x) = %q, want 0", got)
	}
}

func TestChoiceCompletionsPrefix(t *testing.T) {
	c := &Choice{Options: []string{"fast", "s", "g", "full"}}
	got := c.Completions("f")
	if len(got) != 2 || got[0] != "fast" || got[1] != "full" {
		t.Fatalf("Completions(f) = %v", got)
	}
}

func TestWarningsToggle(t *testing.T) {
	w := New(&config.Validator{Type: "warnings"})
	if got := w.Next("unused"); got != "no-unused" {
		t.Fatalf("Next(unused) = %q", got)
	}
	if got := w.Next("no-unused"); got != "unused" {
		t.Fatalf("Next(no-unused) = %q", got)
	}
}

func TestMultipleChoiceAppends(t *testing.T) {
	mc := New(&config.Validator{
		Type:    "multiple-choice",
		Options: []string{"a", "b", "c"},
	})
	if got := mc.Next(""); got != "a" {
		t.Fatalf("Next() = %q, want a", got)
	}
	if got := mc.Next("a"); got != "a,b" {
		t.Fatalf("Next(a) = %q, want a,b", got)
	}
	if got := mc.Next("a,b,c"); got != "a,b,c" {
		t.Fatalf("Next(full) = %q, want unchanged", got)
	}
}

func TestMultipleChoiceConstraints(t *testing.T) {
	mc := &MultipleChoice{Delimiter: ",", Maximum: 999}
	mc.setOptions([]string{"$head", "mid", "tail$", "$solo$"})

	got := mc.Completions("")
	if len(got) != 4 {
		t.Fatalf("empty completions = %v", got)
	}
	// After any selection, first-only and only-options drop out.
	got = mc.Completions("mid")
	for _, opt := range got {
		if opt == "head" || opt == "solo" {
			t.Fatalf("constrained option %q offered after selection", opt)
		}
	}
	// Nothing can follow a must-be-last option.
	if got := mc.Completions("mid,tail"); len(got) != 0 {
		t.Fatalf("completions after tail = %v, want none", got)
	}
}

func TestMultipleChoiceMaximum(t *testing.T) {
	mc := &MultipleChoice{Delimiter: ",", Maximum: 2}
	mc.setOptions([]string{"a", "b", "c"})
	if got := mc.Completions("a,b"); len(got) != 0 {
		t.Fatalf("completions past maximum = %v", got)
	}
}

func TestFileCompletions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"main.c", "main.o", "util.c", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	f := &File{Extensions: []string{".c"}, Root: dir}
	got := f.Completions("")
	want := []string{
		filepath.Join(dir, "main.c"),
		filepath.Join(dir, "sub"),
		filepath.Join(dir, "util.c"),
	}
	if len(got) != len(want) {
		t.Fatalf("completions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("completions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileDirsOnly(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "file.c"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "include"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f := &File{DirsOnly: true, Root: dir}
	got := f.Completions("")
	if len(got) != 1 || got[0] != filepath.Join(dir, "include") {
		t.Fatalf("completions = %v", got)
	}
}

func TestFileNextCycles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.c", "b.c"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	f := &File{Root: dir}
	first := f.Next("")
	if first != filepath.Join(dir, "a.c") {
		t.Fatalf("first = %q", first)
	}
	second := f.Next(first)
	if second != filepath.Join(dir, "b.c") {
		t.Fatalf("second = %q", second)
	}
	if got := f.Next(second); got != first {
		t.Fatalf("wrap = %q, want %q", got, first)
	}
}
