package editor

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/kobzarvs/prompt/internal/config"
	"github.com/kobzarvs/prompt/internal/logger"
	"github.com/kobzarvs/prompt/internal/match"
)

// ColorRun assigns one style to a half-open rune span [Start, End) of the
// buffer. Highlight always returns runs that tile the whole buffer with no
// gaps and no overlaps.
type ColorRun struct {
	Start int
	End   int
	Style tcell.Style
}

type theme struct {
	background        tcell.Color
	def               tcell.Style
	cursor            tcell.Style
	duplicate         tcell.Style
	duplicateCurrent  tcell.Style
	duplicateSelected tcell.Style
	categories        map[string]tcell.Style
	dimBlend          float64
}

func newTheme(cfg config.Config) theme {
	if !cfg.Editor.Color {
		// Monochrome: duplicates mode stays visible through attributes.
		return theme{
			def:               tcell.StyleDefault,
			cursor:            tcell.StyleDefault.Reverse(true),
			duplicate:         tcell.StyleDefault.Underline(true),
			duplicateCurrent:  tcell.StyleDefault.Reverse(true),
			duplicateSelected: tcell.StyleDefault.Bold(true).Underline(true),
			categories:        map[string]tcell.Style{},
		}
	}
	bg := tcell.ColorDefault
	if c, ok := parseColor(cfg.Theme.Background); ok {
		bg = c
	}
	base := tcell.StyleDefault.Background(bg)
	t := theme{
		background:        bg,
		def:               parseStyle(cfg.Theme.Default, base),
		cursor:            parseStyle(cfg.Theme.Cursor, base),
		duplicate:         parseStyle(cfg.Theme.Duplicate, base),
		duplicateCurrent:  parseStyle(cfg.Theme.DuplicateCurrent, base),
		duplicateSelected: parseStyle(cfg.Theme.DuplicateSelected, base),
		categories:        make(map[string]tcell.Style, len(cfg.Theme.Categories)),
		dimBlend:          cfg.Editor.DimBlend,
	}
	if t.dimBlend < 0 {
		t.dimBlend = 0
	} else if t.dimBlend > 1 {
		t.dimBlend = 1
	}
	for name, spec := range cfg.Theme.Categories {
		t.categories[name] = parseStyle(spec, base)
	}
	return t
}

// parseStyle turns a spec like "bold #FF3333 on #0A0E14" into a style on
// top of base. The word "on" switches the next color to the background;
// unknown words are logged and skipped so a bad theme degrades instead of
// failing.
func parseStyle(spec string, base tcell.Style) tcell.Style {
	style := base
	onBackground := false
	for _, word := range strings.Fields(spec) {
		switch word {
		case "on":
			onBackground = true
			continue
		case "bold":
			style = style.Bold(true)
		case "dim":
			style = style.Dim(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "blink":
			style = style.Blink(true)
		case "reverse":
			style = style.Reverse(true)
		case "strikethrough":
			style = style.StrikeThrough(true)
		default:
			c, ok := parseColor(word)
			if !ok {
				logger.Warn("unknown style word", "word", word, "spec", spec)
				continue
			}
			if onBackground {
				style = style.Background(c)
			} else {
				style = style.Foreground(c)
			}
		}
		onBackground = false
	}
	return style
}

func parseColor(name string) (tcell.Color, bool) {
	if name == "" || name == "default" {
		return tcell.ColorDefault, false
	}
	if strings.HasPrefix(name, "#") {
		v, err := strconv.ParseInt(name[1:], 16, 32)
		if err != nil || len(name) != 7 {
			return tcell.ColorDefault, false
		}
		return tcell.NewHexColor(int32(v)), true
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, false
	}
	return c, true
}

// Highlight computes the color runs for the current buffer. Token spans get
// their category style, the gaps between them the default style. Lights-off
// dims every token outside the focus set; duplicates mode overrides token
// styles for duplicate members.
func (e *Editor) Highlight() []ColorRun {
	results := e.Results()
	runs := make([]ColorRun, 0, len(results)*2+1)
	pos := 0
	for i, res := range results {
		tok := res.Token
		if tok.Start > pos {
			runs = append(runs, ColorRun{Start: pos, End: tok.Start, Style: e.theme.def})
		}
		if tok.End > tok.Start {
			runs = append(runs, ColorRun{Start: tok.Start, End: tok.End, Style: e.tokenStyle(i, res)})
		}
		pos = tok.End
	}
	if pos < len(e.buffer) {
		runs = append(runs, ColorRun{Start: pos, End: len(e.buffer), Style: e.theme.def})
	}
	return runs
}

func (e *Editor) tokenStyle(index int, res match.Result) tcell.Style {
	style := e.theme.def
	if s, ok := e.theme.categories[res.Category]; ok && res.Matched {
		style = s
	}
	switch e.mode {
	case ModeLightsOff:
		if !e.focus[res.Category] {
			style = e.dimStyle(style)
		}
	case ModeDuplicates:
		if e.dup != nil {
			if s, ok := e.duplicateStyle(index); ok {
				style = s
			}
		}
	}
	return style
}

// duplicateStyle reports the override style for a token that is a duplicate
// group member: the member under the cursor, a selected member, or a plain
// member. Non-members keep their category style.
func (e *Editor) duplicateStyle(index int) (tcell.Style, bool) {
	_, current := e.dup.current()
	if index == current {
		return e.theme.duplicateCurrent, true
	}
	if e.dup.selected[index] {
		return e.theme.duplicateSelected, true
	}
	for _, g := range e.dup.groups {
		for _, idx := range g.Indices {
			if idx == index {
				return e.theme.duplicate, true
			}
		}
	}
	return tcell.StyleDefault, false
}

// dimStyle blends the foreground toward the theme background. The blend
// always starts from the untouched theme style, so dimming the same token
// twice gives the same color as dimming it once.
func (e *Editor) dimStyle(style tcell.Style) tcell.Style {
	fg, _, _ := style.Decompose()
	if fg == tcell.ColorDefault {
		fg, _, _ = e.theme.def.Decompose()
	}
	if fg == tcell.ColorDefault || e.theme.background == tcell.ColorDefault {
		return style.Dim(true)
	}
	return style.Foreground(blendToward(fg, e.theme.background, e.theme.dimBlend))
}

func blendToward(from, to tcell.Color, amount float64) tcell.Color {
	fr, fg, fb := from.RGB()
	tr, tg, tb := to.RGB()
	a := colorful.Color{R: float64(fr) / 255, G: float64(fg) / 255, B: float64(fb) / 255}
	b := colorful.Color{R: float64(tr) / 255, G: float64(tg) / 255, B: float64(tb) / 255}
	mixed := a.BlendRgb(b, amount).Clamped()
	r, g, bl := mixed.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
}
