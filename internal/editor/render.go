package editor

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Render draws the command line on the first row and a status bar on the
// last one. The line scrolls horizontally so the cursor stays visible.
func (e *Editor) Render(screen tcell.Screen) {
	width, height := screen.Size()
	if width == 0 || height == 0 {
		return
	}
	screen.HideCursor()

	offset := 0
	if e.cursor >= width {
		offset = e.cursor - width + 1
	}

	for col := 0; col < width; col++ {
		screen.SetContent(col, 0, ' ', nil, e.theme.def)
	}
	for _, run := range e.Highlight() {
		for pos := run.Start; pos < run.End; pos++ {
			col := pos - offset
			if col < 0 || col >= width {
				continue
			}
			screen.SetContent(col, 0, e.buffer[pos], nil, run.Style)
		}
	}

	if height > 1 {
		e.renderStatus(screen, width, height-1)
	}

	screen.ShowCursor(e.cursor-offset, 0)
	screen.Show()
}

func (e *Editor) renderStatus(screen tcell.Screen, width, row int) {
	style := e.theme.def.Reverse(true)
	status := fmt.Sprintf(" %s ", e.mode)
	if e.matcher != nil {
		if p := e.matcher.Program(); p.Source != "unknown" {
			status += fmt.Sprintf(" %s ", p.Canonical)
		}
	}
	if e.statusMessage != "" {
		status += " " + e.statusMessage
	}
	runes := []rune(status)
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		screen.SetContent(col, row, r, nil, style)
	}
}
