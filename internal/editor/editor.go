package editor

import (
	"strings"

	"github.com/kobzarvs/prompt/internal/config"
	"github.com/kobzarvs/prompt/internal/logger"
	"github.com/kobzarvs/prompt/internal/match"
	"github.com/kobzarvs/prompt/internal/token"
	"github.com/kobzarvs/prompt/internal/validate"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeLightsOff
	ModeDuplicates
)

func (m Mode) String() string {
	switch m {
	case ModeLightsOff:
		return "LIGHTS-OFF"
	case ModeDuplicates:
		return "DUPLICATES"
	default:
		return "NORMAL"
	}
}

type keymapSet struct {
	normal     map[string]string
	duplicates map[string]string
}

type snapshot struct {
	buffer []rune
	cursor int
}

// Editor owns the command line buffer and cursor. Tokens, categories and
// color runs are derived state, recomputed from the buffer whenever asked;
// nothing rendered is ever cached across an edit.
type Editor struct {
	cfg     config.Config
	theme   theme
	keymap  keymapSet
	aliases map[string]string

	buffer  []rune
	cursor  int
	mode    Mode
	initial string

	executable string
	matcher    *match.Matcher

	// Lights-off focus set, keyed by category name.
	focus map[string]bool

	dup *duplicatesState

	statusMessage string
	undo          []snapshot

	shouldExit bool
	exitPrint  bool
	exitReset  bool

	// Test hook: called with the resolved command name for every executed
	// command.
	actionHook func(name string)
}

func New(cfg config.Config, line string) *Editor {
	normal := make(map[string]string, len(cfg.Keymap.Normal))
	for k, v := range cfg.Keymap.Normal {
		normal[k] = v
	}
	duplicates := make(map[string]string, len(cfg.Keymap.Duplicates))
	for k, v := range cfg.Keymap.Duplicates {
		duplicates[k] = v
	}
	aliases := make(map[string]string, len(cfg.Aliases))
	for k, v := range cfg.Aliases {
		aliases[k] = v
	}

	e := &Editor{
		cfg:     cfg,
		theme:   newTheme(cfg),
		keymap:  keymapSet{normal: normal, duplicates: duplicates},
		aliases: aliases,
		buffer:  []rune(line),
		cursor:  len([]rune(line)),
		initial: line,
	}
	e.refreshMatcher()
	return e
}

func (e *Editor) Buffer() string {
	return string(e.buffer)
}

func (e *Editor) Cursor() int {
	return e.cursor
}

func (e *Editor) Mode() Mode {
	return e.mode
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

// Result returns the final command line and whether it should be printed.
// With the reset flag set the initial line is returned instead of the edited
// one.
func (e *Editor) Result() (string, bool) {
	if e.exitReset {
		return e.initial, e.exitPrint
	}
	return string(e.buffer), e.exitPrint
}

func (e *Editor) ShouldExit() bool {
	return e.shouldExit
}

// Tokens re-tokenizes the current buffer.
func (e *Editor) Tokens() []token.Token {
	return token.Tokenize(string(e.buffer))
}

// Results categorizes the current buffer, rebuilding the matcher when the
// executable token changed.
func (e *Editor) Results() []match.Result {
	tokens := e.Tokens()
	exe := ""
	if len(tokens) > 0 {
		exe = tokens[0].Text
	}
	if exe != e.executable || e.matcher == nil {
		e.executable = exe
		e.matcher = match.New(e.cfg, exe)
	}
	return e.matcher.MatchAll(tokens)
}

func (e *Editor) refreshMatcher() {
	e.executable = ""
	e.matcher = nil
	e.Results()
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

// --- Edit engine -----------------------------------------------------------
//
// All mutations are total: at a buffer boundary they are no-ops, never
// errors. Each one leaves the cursor at a valid offset in [0, len(buffer)].

func (e *Editor) InsertRune(r rune) {
	e.saveUndo()
	e.buffer = append(e.buffer[:e.cursor], append([]rune{r}, e.buffer[e.cursor:]...)...)
	e.cursor++
}

func (e *Editor) deleteCharLeft() {
	if e.cursor == 0 {
		return
	}
	e.saveUndo()
	e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
	e.cursor--
}

func (e *Editor) deleteChar() {
	if e.cursor >= len(e.buffer) {
		return
	}
	e.saveUndo()
	e.buffer = append(e.buffer[:e.cursor], e.buffer[e.cursor+1:]...)
}

func (e *Editor) moveCharLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *Editor) moveCharRight() {
	if e.cursor < len(e.buffer) {
		e.cursor++
	}
}

func (e *Editor) moveLineStart() {
	e.cursor = 0
}

func (e *Editor) moveLineEnd() {
	e.cursor = len(e.buffer)
}

func (e *Editor) moveWordLeft() {
	pos := e.cursor
	for pos > 0 && isSpace(e.buffer[pos-1]) {
		pos--
	}
	for pos > 0 && !isSpace(e.buffer[pos-1]) {
		pos--
	}
	e.cursor = pos
}

func (e *Editor) moveWordRight() {
	pos := e.cursor
	for pos < len(e.buffer) && !isSpace(e.buffer[pos]) {
		pos++
	}
	for pos < len(e.buffer) && isSpace(e.buffer[pos]) {
		pos++
	}
	e.cursor = pos
}

func (e *Editor) moveParamNext() {
	for _, tok := range e.Tokens() {
		if tok.Start > e.cursor {
			e.cursor = tok.Start
			return
		}
	}
}

func (e *Editor) moveParamPrev() {
	tokens := e.Tokens()
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].End <= e.cursor {
			e.cursor = tokens[i].Start
			return
		}
	}
}

// deleteWordLeft removes the run of non-whitespace before the cursor plus
// any whitespace in front of it. Inside a quoted token the deletion stops
// after the opening quote, so a single word delete never escapes an open
// quote into the unquoted text before it.
func (e *Editor) deleteWordLeft() {
	floor := 0
	for _, tok := range e.Tokens() {
		if !tok.Quoted() || e.cursor <= tok.Start || e.cursor > tok.End {
			continue
		}
		// Floor at the opening quote so the delete stays inside the
		// quoted section when the cursor started there.
		for i := tok.Start; i < tok.End && i < e.cursor; i++ {
			r := e.buffer[i]
			if (r == '"' || r == '\'') && (i == tok.Start || e.buffer[i-1] != '\\') {
				floor = i + 1
				break
			}
		}
		break
	}
	pos := e.cursor
	for pos > floor && isSpace(e.buffer[pos-1]) {
		pos--
	}
	for pos > floor && !isSpace(e.buffer[pos-1]) {
		pos--
	}
	// Take the whitespace in front of the word too, so repeated deletes
	// walk back one word at a time without leaving gaps behind.
	for pos > floor && isSpace(e.buffer[pos-1]) {
		pos--
	}
	if pos == e.cursor {
		return
	}
	e.saveUndo()
	e.buffer = append(e.buffer[:pos], e.buffer[e.cursor:]...)
	e.cursor = pos
}

func (e *Editor) deleteWordRight() {
	pos := e.cursor
	for pos < len(e.buffer) && !isSpace(e.buffer[pos]) {
		pos++
	}
	for pos < len(e.buffer) && isSpace(e.buffer[pos]) {
		pos++
	}
	if pos == e.cursor {
		return
	}
	e.saveUndo()
	e.buffer = append(e.buffer[:e.cursor], e.buffer[pos:]...)
}

// deleteParam removes the whole token containing the cursor, or the one
// immediately before it when the cursor sits in a gap. The span comes from
// the tokenizer, so a quoted parameter goes as one unit, delimiters
// included. Surrounding whitespace stays.
func (e *Editor) deleteParam() {
	var target *token.Token
	tokens := e.Tokens()
	for i := range tokens {
		tok := &tokens[i]
		if tok.Contains(e.cursor) {
			target = tok
			break
		}
		if tok.End <= e.cursor {
			target = tok
		}
	}
	if target == nil {
		return
	}
	e.saveUndo()
	e.buffer = append(e.buffer[:target.Start], e.buffer[target.End:]...)
	e.cursor = target.Start
}

func (e *Editor) deleteToEnd() {
	if e.cursor >= len(e.buffer) {
		return
	}
	e.saveUndo()
	e.buffer = e.buffer[:e.cursor]
}

func (e *Editor) deleteToStart() {
	if e.cursor == 0 {
		return
	}
	e.saveUndo()
	e.buffer = append([]rune{}, e.buffer[e.cursor:]...)
	e.cursor = 0
}

func (e *Editor) saveUndo() {
	buf := make([]rune, len(e.buffer))
	copy(buf, e.buffer)
	e.undo = append(e.undo, snapshot{buffer: buf, cursor: e.cursor})
}

func (e *Editor) Undo() {
	if len(e.undo) == 0 {
		return
	}
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.buffer = last.buffer
	e.cursor = last.cursor
}

// --- Mode controller -------------------------------------------------------
//
// Modes form a closed set: Normal toggles with LightsOff and with
// Duplicates; the two overlay modes never combine, entering one always
// leaves the other.

func (e *Editor) toggleLightsOff(categories []string) {
	focus := e.focusSet(categories)
	if e.mode == ModeLightsOff && sameFocus(e.focus, focus) {
		e.mode = ModeNormal
		e.focus = nil
		return
	}
	e.dup = nil
	e.focus = focus
	e.mode = ModeLightsOff
}

// focusSet resolves the lights-off focus: command arguments win, then the
// configured set, then the category under the cursor.
func (e *Editor) focusSet(categories []string) map[string]bool {
	focus := make(map[string]bool)
	for _, c := range categories {
		focus[c] = true
	}
	if len(focus) > 0 {
		return focus
	}
	for _, c := range e.cfg.Editor.LightsOffFocus {
		focus[c] = true
	}
	if len(focus) > 0 {
		return focus
	}
	if cat := e.categoryAtCursor(); cat != "" {
		focus[cat] = true
	}
	return focus
}

func (e *Editor) categoryAtCursor() string {
	for _, res := range e.Results() {
		if res.Token.Contains(e.cursor) || res.Token.End == e.cursor {
			return res.Category
		}
	}
	return ""
}

func sameFocus(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func (e *Editor) enterDuplicates() {
	groups := match.DuplicateGroups(e.Tokens())
	if len(groups) == 0 {
		e.setStatus("no duplicates")
		return
	}
	e.focus = nil
	e.dup = newDuplicatesState(groups)
	e.mode = ModeDuplicates
	e.moveCursorToCurrentDuplicate()
}

func (e *Editor) exitDuplicates() {
	e.dup = nil
	e.mode = ModeNormal
}

// --- Completion ------------------------------------------------------------

// completeNext cycles the value of the parameter under the cursor through
// its validator's candidates. Tokens without a matching rule or validator
// are left alone.
func (e *Editor) completeNext() {
	results := e.Results()
	var res *match.Result
	for i := range results {
		tok := results[i].Token
		if tok.Contains(e.cursor) || tok.End == e.cursor {
			res = &results[i]
			break
		}
	}
	if res == nil || res.Rule == nil || res.Rule.Validator == nil {
		return
	}
	completer := validate.New(res.Rule.Validator)
	if completer == nil {
		return
	}
	prefix, value := splitFlagValue(*res)
	next := completer.Next(value)
	if next == value {
		return
	}
	e.replaceToken(res.Token, prefix+next)
}

// splitFlagValue splits a matched token into the flag prefix and its value,
// using the first capture group as the prefix boundary (the rule patterns
// capture the flag letter first).
func splitFlagValue(res match.Result) (string, string) {
	text := res.Token.Text
	if len(res.Groups) == 0 || res.Groups[0].Index == 0 {
		return "", text
	}
	cut := res.Groups[0].End
	if cut > len(text) {
		cut = len(text)
	}
	return text[:cut], text[cut:]
}

func (e *Editor) replaceToken(tok token.Token, text string) {
	e.saveUndo()
	raw := []rune(token.QuoteValue(text))
	e.buffer = append(e.buffer[:tok.Start], append(raw, e.buffer[tok.End:]...)...)
	e.cursor = tok.Start + len(raw)
}

// rebuildFromTokens replaces the buffer with the raw spans of the given
// tokens joined by single spaces. Used by duplicates-mode deletions.
func (e *Editor) rebuildFromTokens(tokens []token.Token) {
	e.saveUndo()
	e.buffer = []rune(token.Detokenize(tokens))
	if e.cursor > len(e.buffer) {
		e.cursor = len(e.buffer)
	}
}

// rebuildLine normalizes the whole buffer: every token is requoted in
// canonical form and tokens are rejoined with single spaces.
func (e *Editor) rebuildLine() {
	tokens := e.Tokens()
	if len(tokens) == 0 {
		return
	}
	rebuilt := token.Rebuild(tokens)
	if rebuilt == string(e.buffer) {
		return
	}
	e.saveUndo()
	e.buffer = []rune(rebuilt)
	if e.cursor > len(e.buffer) {
		e.cursor = len(e.buffer)
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// parseCommandString splits a bound command like "quit -p" into name and
// arguments. Quoting follows the tokenizer.
func parseCommandString(cmd string) (string, []string) {
	tokens := token.Tokenize(strings.TrimSpace(cmd))
	if len(tokens) == 0 {
		return "", nil
	}
	args := make([]string, 0, len(tokens)-1)
	for _, t := range tokens[1:] {
		args = append(args, t.Text)
	}
	return tokens[0].Text, args
}

func (e *Editor) resolveAlias(cmd string) string {
	name, _ := parseCommandString(cmd)
	target, ok := e.aliases[name]
	if !ok {
		return cmd
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmd), name))
	if rest == "" {
		return target
	}
	logger.Debug("alias resolved", "alias", name, "target", target)
	return target + " " + rest
}
