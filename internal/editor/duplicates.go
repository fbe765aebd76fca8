package editor

import (
	"fmt"

	"github.com/kobzarvs/prompt/internal/match"
	"github.com/kobzarvs/prompt/internal/token"
)

// duplicatesState tracks the duplicate groups of the current buffer while
// duplicates mode is active. Group order follows first occurrence; member
// indices are token indices into the tokenization the groups were built
// from, so every buffer change forces a refresh.
type duplicatesState struct {
	groups   []match.DuplicateGroup
	group    int
	member   int
	selected map[int]bool
}

func newDuplicatesState(groups []match.DuplicateGroup) *duplicatesState {
	return &duplicatesState{groups: groups, selected: make(map[int]bool)}
}

func (d *duplicatesState) current() (match.DuplicateGroup, int) {
	g := d.groups[d.group]
	return g, g.Indices[d.member]
}

func (e *Editor) moveCursorToCurrentDuplicate() {
	if e.dup == nil || len(e.dup.groups) == 0 {
		return
	}
	_, idx := e.dup.current()
	tokens := e.Tokens()
	if idx < len(tokens) {
		e.cursor = tokens[idx].Start
	}
	g, _ := e.dup.current()
	e.setStatus(fmt.Sprintf("duplicate %d/%d of %q (group %d/%d)",
		e.dup.member+1, len(g.Indices), g.Text, e.dup.group+1, len(e.dup.groups)))
}

func (e *Editor) duplicateNext() {
	if e.dup == nil {
		return
	}
	g := e.dup.groups[e.dup.group]
	e.dup.member = (e.dup.member + 1) % len(g.Indices)
	e.moveCursorToCurrentDuplicate()
}

func (e *Editor) duplicatePrev() {
	if e.dup == nil {
		return
	}
	g := e.dup.groups[e.dup.group]
	e.dup.member = (e.dup.member - 1 + len(g.Indices)) % len(g.Indices)
	e.moveCursorToCurrentDuplicate()
}

func (e *Editor) duplicateNextGroup() {
	if e.dup == nil {
		return
	}
	e.dup.group = (e.dup.group + 1) % len(e.dup.groups)
	e.dup.member = 0
	e.moveCursorToCurrentDuplicate()
}

func (e *Editor) duplicatePrevGroup() {
	if e.dup == nil {
		return
	}
	e.dup.group = (e.dup.group - 1 + len(e.dup.groups)) % len(e.dup.groups)
	e.dup.member = 0
	e.moveCursorToCurrentDuplicate()
}

func (e *Editor) duplicateToggleSelect() {
	if e.dup == nil {
		return
	}
	_, idx := e.dup.current()
	e.dup.selected[idx] = !e.dup.selected[idx]
}

// duplicateSelectAll marks every member of the current group.
func (e *Editor) duplicateSelectAll() {
	if e.dup == nil {
		return
	}
	for _, idx := range e.dup.groups[e.dup.group].Indices {
		e.dup.selected[idx] = true
	}
}

func (e *Editor) duplicateSelectNone() {
	if e.dup == nil {
		return
	}
	e.dup.selected = make(map[int]bool)
}

// duplicatesKeepCurrent removes every member of the current group except the
// one under the cursor.
func (e *Editor) duplicatesKeepCurrent() {
	if e.dup == nil {
		return
	}
	g, keep := e.dup.current()
	drop := make(map[int]bool, len(g.Indices))
	for _, idx := range g.Indices {
		if idx != keep {
			drop[idx] = true
		}
	}
	e.removeTokens(drop)
}

// duplicatesKeepFirst removes every member of the current group except its
// first occurrence.
func (e *Editor) duplicatesKeepFirst() {
	if e.dup == nil {
		return
	}
	g := e.dup.groups[e.dup.group]
	drop := make(map[int]bool, len(g.Indices))
	for _, idx := range g.Indices[1:] {
		drop[idx] = true
	}
	e.removeTokens(drop)
}

// duplicatesDeleteSelected removes the selected members. A group never loses
// all of its members to one delete: when every member of a group is
// selected, its first occurrence survives.
func (e *Editor) duplicatesDeleteSelected() {
	if e.dup == nil || len(e.dup.selected) == 0 {
		e.setStatus("no duplicates selected")
		return
	}
	drop := make(map[int]bool, len(e.dup.selected))
	for idx, on := range e.dup.selected {
		if on {
			drop[idx] = true
		}
	}
	for _, g := range e.dup.groups {
		all := true
		for _, idx := range g.Indices {
			if !drop[idx] {
				all = false
				break
			}
		}
		if all {
			delete(drop, g.Indices[0])
		}
	}
	e.removeTokens(drop)
}

// removeTokens drops the tokens at the given indices, rebuilds the buffer
// and refreshes the duplicate groups against the new tokenization.
func (e *Editor) removeTokens(drop map[int]bool) {
	if len(drop) == 0 {
		return
	}
	tokens := e.Tokens()
	kept := make([]token.Token, 0, len(tokens))
	for i, tok := range tokens {
		if !drop[i] {
			kept = append(kept, tok)
		}
	}
	e.rebuildFromTokens(kept)
	e.refreshDuplicates()
}

func (e *Editor) refreshDuplicates() {
	groups := match.DuplicateGroups(e.Tokens())
	if len(groups) == 0 {
		e.exitDuplicates()
		e.setStatus("no duplicates left")
		return
	}
	e.dup = newDuplicatesState(groups)
	e.moveCursorToCurrentDuplicate()
}
