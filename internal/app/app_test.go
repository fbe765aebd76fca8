package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestAssembleLine(t *testing.T) {
	got := assembleLine([]string{"gcc", "-I/tmp/foo", "-o", "test", "main.c"})
	if got != "gcc -I/tmp/foo -o test main.c" {
		t.Fatalf("line = %q", got)
	}
}

func TestAssembleLineQuotesSpaces(t *testing.T) {
	got := assembleLine([]string{"gcc", "-I/tmp/my dir", "main.c"})
	if got != `gcc "-I/tmp/my dir" main.c` {
		t.Fatalf("line = %q", got)
	}
}

func TestAssembleLineEmpty(t *testing.T) {
	if got := assembleLine(nil); got != "" {
		t.Fatalf("line = %q, want empty", got)
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	a := New([]string{"--version"})
	a.stdout = &out
	if err := a.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "prompt ") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	a := New([]string{"--help"})
	a.stdout = &out
	if err := a.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "--theme") {
		t.Fatalf("help output = %q", out.String())
	}
}

func TestRunNoCommand(t *testing.T) {
	t.Setenv("PROMPT_CONFIG_HOME", t.TempDir())
	a := New(nil)
	err := a.Run()
	if err == nil {
		t.Fatalf("empty command line did not error")
	}
	if !strings.Contains(err.Error(), "no command") {
		t.Fatalf("error = %v", err)
	}
}

func TestRunBadOption(t *testing.T) {
	a := New([]string{"--no-such-option"})
	if err := a.Run(); err == nil {
		t.Fatalf("bad option did not error")
	}
}
