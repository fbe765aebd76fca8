package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kobzarvs/prompt/internal/logger"
)

type commandFunc func(e *Editor, args []string)

// commandNames is kept sorted so ambiguity reports are deterministic.
var commandNames []string

var commands = map[string]commandFunc{
	"move-char-left":  func(e *Editor, _ []string) { e.moveCharLeft() },
	"move-char-right": func(e *Editor, _ []string) { e.moveCharRight() },
	"move-word-left":  func(e *Editor, _ []string) { e.moveWordLeft() },
	"move-word-right": func(e *Editor, _ []string) { e.moveWordRight() },
	"move-line-start": func(e *Editor, _ []string) { e.moveLineStart() },
	"move-line-end":   func(e *Editor, _ []string) { e.moveLineEnd() },
	"move-param-next": func(e *Editor, _ []string) { e.moveParamNext() },
	"move-param-prev": func(e *Editor, _ []string) { e.moveParamPrev() },

	"delete-char":       func(e *Editor, _ []string) { e.deleteChar() },
	"delete-char-left":  func(e *Editor, _ []string) { e.deleteCharLeft() },
	"delete-word-left":  func(e *Editor, _ []string) { e.deleteWordLeft() },
	"delete-word-right": func(e *Editor, _ []string) { e.deleteWordRight() },
	"delete-param":      func(e *Editor, _ []string) { e.deleteParam() },
	"delete-to-end":     func(e *Editor, _ []string) { e.deleteToEnd() },
	"delete-to-start":   func(e *Editor, _ []string) { e.deleteToStart() },

	"undo":          func(e *Editor, _ []string) { e.Undo() },
	"complete-next": func(e *Editor, _ []string) { e.completeNext() },
	"rebuild":       func(e *Editor, _ []string) { e.rebuildLine() },

	"lights-off":      func(e *Editor, args []string) { e.toggleLightsOff(args) },
	"show-duplicates": func(e *Editor, _ []string) { e.enterDuplicates() },

	"duplicate-prev":           func(e *Editor, _ []string) { e.duplicatePrev() },
	"duplicate-next":           func(e *Editor, _ []string) { e.duplicateNext() },
	"duplicate-previous-group": func(e *Editor, _ []string) { e.duplicatePrevGroup() },
	"duplicate-next-group":     func(e *Editor, _ []string) { e.duplicateNextGroup() },
	"duplicate-select":         func(e *Editor, _ []string) { e.duplicateToggleSelect() },
	"duplicate-all":            func(e *Editor, _ []string) { e.duplicateSelectAll() },
	"duplicate-none":           func(e *Editor, _ []string) { e.duplicateSelectNone() },
	"duplicates-keep":          func(e *Editor, _ []string) { e.duplicatesKeepCurrent() },
	"duplicates-first":         func(e *Editor, _ []string) { e.duplicatesKeepFirst() },
	"duplicates-delete":        func(e *Editor, _ []string) { e.duplicatesDeleteSelected() },
	"duplicates-exit":          func(e *Editor, _ []string) { e.exitDuplicates() },

	"quit": quit,
}

func init() {
	commandNames = make([]string, 0, len(commands))
	for name := range commands {
		commandNames = append(commandNames, name)
	}
	sort.Strings(commandNames)
}

// quit ends the session. -p prints the final command line, -r restores the
// initial line first, -y skips nothing here but is accepted so bindings can
// carry it.
func quit(e *Editor, args []string) {
	for _, arg := range args {
		switch arg {
		case "-p", "--print":
			e.exitPrint = true
		case "-r", "--reset":
			e.exitReset = true
		case "-y", "--yes":
			// accepted for compatibility with explicit bindings
		default:
			e.setStatus(fmt.Sprintf("quit: unknown option %q", arg))
			return
		}
	}
	e.shouldExit = true
}

// resolveCommand expands an abbreviated name against the registry. Each
// dash-separated segment is matched as a prefix of the corresponding
// segment of a registered name, so "del-par" resolves to delete-param.
// Exact names always win over abbreviations.
func resolveCommand(name string) (string, error) {
	if _, ok := commands[name]; ok {
		return name, nil
	}
	var matches []string
	parts := strings.Split(name, "-")
	for _, candidate := range commandNames {
		if segmentsMatch(parts, strings.Split(candidate, "-")) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unrecognized operation: %s", name)
	default:
		return "", fmt.Errorf("ambiguous operation %s: %s", name, strings.Join(matches, ", "))
	}
}

func segmentsMatch(parts, target []string) bool {
	if len(parts) > len(target) {
		return false
	}
	for i, p := range parts {
		if !strings.HasPrefix(target[i], p) {
			return false
		}
	}
	return true
}

// Exec resolves and runs a command string, alias expansion and
// abbreviations included. Unknown or ambiguous names land in the status
// line, never in an error return; the session keeps running.
func (e *Editor) Exec(cmd string) {
	e.statusMessage = ""
	cmd = e.resolveAlias(cmd)
	name, args := parseCommandString(cmd)
	if name == "" {
		return
	}
	full, err := resolveCommand(name)
	if err != nil {
		e.setStatus(err.Error())
		return
	}
	logger.Debug("exec", "command", full, "args", args)
	if e.actionHook != nil {
		e.actionHook(full)
	}
	commands[full](e, args)
}
