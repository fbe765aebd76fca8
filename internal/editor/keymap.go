package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyString converts a key event into the form used by keymap config,
// "ctrl+w", "alt+backspace", "enter". Returns "" for events that have no
// spec form (plain runes are handled by the caller as text input).
func keyString(ev *tcell.EventKey) string {
	if ev.Modifiers()&tcell.ModAlt != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			return "alt+up"
		case tcell.KeyDown:
			return "alt+down"
		case tcell.KeyLeft:
			return "alt+left"
		case tcell.KeyRight:
			return "alt+right"
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			return "alt+backspace"
		}
		if ev.Key() == tcell.KeyRune {
			r := ev.Rune()
			if r == ' ' {
				return "alt+space"
			}
			return "alt+" + strings.ToLower(string(r))
		}
	}

	// Tab, Enter and Escape alias control keys in tcell, so they come
	// before the ctrl range.
	switch ev.Key() {
	case tcell.KeyTab:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}

	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}

	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyCtrlUnderscore:
		return "ctrl+_"
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}

// HandleKey routes a key event through the keymap of the active mode.
// Unbound plain runes insert into the buffer in normal and lights-off mode
// and are ignored in duplicates mode. Returns true when the session should
// end.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	keymap := e.keymap.normal
	if e.mode == ModeDuplicates {
		keymap = e.keymap.duplicates
	}
	if key := keyString(ev); key != "" {
		if cmd, ok := keymap[key]; ok {
			e.Exec(cmd)
			return e.shouldExit
		}
	}
	if e.mode != ModeDuplicates && ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) == 0 {
		e.InsertRune(ev.Rune())
	}
	return e.shouldExit
}
