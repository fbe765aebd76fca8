package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runAt(t *testing.T, runs []ColorRun, pos int) ColorRun {
	t.Helper()
	for _, run := range runs {
		if pos >= run.Start && pos < run.End {
			return run
		}
	}
	t.Fatalf("no run covers position %d", pos)
	return ColorRun{}
}

func TestHighlightTilesBuffer(t *testing.T) {
	e := newTestEditor("gcc   -I/usr/include  -O2 ")
	runs := e.Highlight()
	pos := 0
	for _, run := range runs {
		if run.Start != pos {
			t.Fatalf("run starts at %d, want %d", run.Start, pos)
		}
		if run.End <= run.Start {
			t.Fatalf("empty run at %d", run.Start)
		}
		pos = run.End
	}
	if pos != len([]rune(e.Buffer())) {
		t.Fatalf("runs end at %d, want %d", pos, len([]rune(e.Buffer())))
	}
}

func TestHighlightUsesCategoryStyles(t *testing.T) {
	e := newTestEditor("gcc -I/usr/include")
	runs := e.Highlight()
	if got := runAt(t, runs, 0).Style; got != e.theme.categories["Executable"] {
		t.Fatalf("executable token has style %v", got)
	}
	if got := runAt(t, runs, 5).Style; got != e.theme.categories["Includes"] {
		t.Fatalf("include token has style %v", got)
	}
	if got := runAt(t, runs, 3).Style; got != e.theme.def {
		t.Fatalf("gap has style %v, want default", got)
	}
}

func TestHighlightUnmatchedTokenDefault(t *testing.T) {
	e := newTestEditor("gcc main.c")
	runs := e.Highlight()
	if got := runAt(t, runs, 4).Style; got != e.theme.def {
		t.Fatalf("unmatched token has style %v, want default", got)
	}
}

func TestLightsOffDimsOutsideFocus(t *testing.T) {
	e := newTestEditor("gcc -I/usr/include -O2")
	e.Exec("lights-off Includes")
	runs := e.Highlight()
	include := runAt(t, runs, 5).Style
	if include != e.theme.categories["Includes"] {
		t.Fatalf("focused token was dimmed")
	}
	opt := runAt(t, runs, 20).Style
	if opt == e.theme.categories["Optimization"] {
		t.Fatalf("unfocused token kept its full style")
	}
}

func TestLightsOffDimIsIdempotent(t *testing.T) {
	e := newTestEditor("gcc -I/usr/include -O2")
	e.Exec("lights-off Includes")
	first := runAt(t, e.Highlight(), 20).Style
	second := runAt(t, e.Highlight(), 20).Style
	if first != second {
		t.Fatalf("repeated highlight changed the dimmed style")
	}
}

func TestLightsOffExitRestoresStyles(t *testing.T) {
	e := newTestEditor("gcc -I/usr/include -O2")
	e.Exec("lights-off Includes")
	e.Exec("lights-off Includes")
	if got := runAt(t, e.Highlight(), 20).Style; got != e.theme.categories["Optimization"] {
		t.Fatalf("style after exiting lights-off = %v, want full category style", got)
	}
}

func TestDuplicatesOverlayStyles(t *testing.T) {
	e := newTestEditor("gcc -O2 -O2")
	e.Exec("show-duplicates")
	runs := e.Highlight()
	if got := runAt(t, runs, 4).Style; got != e.theme.duplicateCurrent {
		t.Fatalf("current duplicate has style %v", got)
	}
	if got := runAt(t, runs, 8).Style; got != e.theme.duplicate {
		t.Fatalf("other duplicate has style %v", got)
	}
	if got := runAt(t, runs, 0).Style; got != e.theme.categories["Executable"] {
		t.Fatalf("non-duplicate token lost its category style")
	}
}

func TestDuplicatesSelectedStyle(t *testing.T) {
	e := newTestEditor("gcc -O2 -O2")
	e.Exec("show-duplicates")
	e.Exec("duplicate-next")
	e.Exec("duplicate-select")
	e.Exec("duplicate-prev")
	runs := e.Highlight()
	if got := runAt(t, runs, 8).Style; got != e.theme.duplicateSelected {
		t.Fatalf("selected duplicate has style %v", got)
	}
}

func TestParseStyleWords(t *testing.T) {
	base := tcell.StyleDefault
	got := parseStyle("bold #FF0000", base)
	want := base.Bold(true).Foreground(tcell.NewHexColor(0xFF0000))
	if got != want {
		t.Fatalf("parseStyle = %v, want %v", got, want)
	}
}

func TestParseStyleBackground(t *testing.T) {
	base := tcell.StyleDefault
	got := parseStyle("#59C2FF on #222222", base)
	want := base.Foreground(tcell.NewHexColor(0x59C2FF)).Background(tcell.NewHexColor(0x222222))
	if got != want {
		t.Fatalf("parseStyle = %v, want %v", got, want)
	}
}

func TestParseStyleUnknownWordIgnored(t *testing.T) {
	base := tcell.StyleDefault
	if got := parseStyle("sparkly red", base); got != base.Foreground(tcell.ColorRed) {
		t.Fatalf("parseStyle = %v, want plain red", got)
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := parseColor("#0A0E14"); !ok || c != tcell.NewHexColor(0x0A0E14) {
		t.Fatalf("hex color = %v ok=%v", c, ok)
	}
	if c, ok := parseColor("yellow"); !ok || c != tcell.ColorYellow {
		t.Fatalf("named color = %v ok=%v", c, ok)
	}
	if _, ok := parseColor("default"); ok {
		t.Fatalf("default parsed as a color")
	}
	if _, ok := parseColor("#zzz"); ok {
		t.Fatalf("bad hex parsed as a color")
	}
}

func TestBlendTowardMovesColor(t *testing.T) {
	from := tcell.NewRGBColor(255, 0, 0)
	to := tcell.NewRGBColor(0, 0, 0)
	mid := blendToward(from, to, 0.5)
	r, g, b := mid.RGB()
	if r >= 255 || r <= 0 || g != 0 || b != 0 {
		t.Fatalf("blend = %d,%d,%d, want red between 0 and 255", r, g, b)
	}
}
