package validate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kobzarvs/prompt/internal/config"
)

// Completer produces completion hints for a flag value. Completers are a
// side channel: they are consulted only when the user asks for a completion
// and never during the render cycle.
type Completer interface {
	// Completions lists candidate values for the given current value.
	Completions(value string) []string
	// Next cycles to the next candidate after the current value.
	Next(value string) string
}

// New builds a completer from a validator config. Unknown or absent
// validator types yield nil.
func New(v *config.Validator) Completer {
	if v == nil {
		return nil
	}
	switch v.Type {
	case "choice":
		return &Choice{Options: v.Options}
	case "multiple-choice":
		delim := v.Delimiter
		if delim == "" {
			delim = ","
		}
		maximum := v.Maximum
		if maximum == 0 {
			maximum = 999
		}
		mc := &MultipleChoice{Delimiter: delim, Minimum: v.Minimum, Maximum: maximum}
		mc.setOptions(v.Options)
		return mc
	case "warnings":
		prefix := v.Prefix
		if prefix == "" {
			prefix = "no-"
		}
		return &Warnings{Prefix: prefix}
	case "file", "directory":
		return &File{
			DirsOnly:   v.Type == "directory",
			Extensions: v.Extensions,
			Root:       v.Directory,
		}
	}
	return nil
}

// Choice cycles a value through a fixed option list.
type Choice struct {
	Options []string
}

func (c *Choice) Completions(value string) []string {
	if value == "" {
		return append([]string(nil), c.Options...)
	}
	var out []string
	for _, opt := range c.Options {
		if strings.HasPrefix(strings.ToLower(opt), strings.ToLower(value)) {
			out = append(out, opt)
		}
	}
	return out
}

func (c *Choice) Next(value string) string {
	if len(c.Options) == 0 {
		return value
	}
	for i, opt := range c.Options {
		if strings.EqualFold(opt, value) {
			return c.Options[(i+1)%len(c.Options)]
		}
	}
	return c.Options[0]
}

// Warnings toggles a compiler warning between its enabled and disabled
// spelling (-Wfoo vs -Wno-foo).
type Warnings struct {
	Prefix string
}

func (w *Warnings) Completions(value string) []string {
	return []string{w.Next(value)}
}

func (w *Warnings) Next(value string) string {
	if rest, ok := strings.CutPrefix(value, w.Prefix); ok {
		return rest
	}
	return w.Prefix + value
}

// MultipleChoice cycles through delimiter-separated selections. Options may
// carry position constraints: "$opt" must come first, "opt$" must come last,
// "$opt$" must be the only selection.
type MultipleChoice struct {
	Delimiter string
	Minimum   int
	Maximum   int

	options   []string
	mustFirst map[string]bool
	mustLast  map[string]bool
	mustOnly  map[string]bool
}

func (m *MultipleChoice) setOptions(raw []string) {
	m.mustFirst = map[string]bool{}
	m.mustLast = map[string]bool{}
	m.mustOnly = map[string]bool{}
	for _, opt := range raw {
		clean := opt
		first := strings.HasPrefix(opt, "$")
		last := strings.HasSuffix(opt, "$")
		if first {
			clean = clean[1:]
		}
		if last {
			clean = clean[:len(clean)-1]
		}
		m.options = append(m.options, clean)
		switch {
		case first && last:
			m.mustOnly[clean] = true
		case first:
			m.mustFirst[clean] = true
		case last:
			m.mustLast[clean] = true
		}
	}
}

func (m *MultipleChoice) parts(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, m.Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (m *MultipleChoice) Completions(value string) []string {
	selected := m.parts(value)
	chosen := make(map[string]bool, len(selected))
	for _, p := range selected {
		chosen[p] = true
	}
	var out []string
	for _, opt := range m.options {
		if chosen[opt] {
			continue
		}
		if len(selected) > 0 {
			if m.mustFirst[opt] || m.mustOnly[opt] {
				continue
			}
			if m.mustLast[selected[len(selected)-1]] {
				continue
			}
		}
		if len(selected) >= m.Maximum {
			continue
		}
		out = append(out, opt)
	}
	return out
}

func (m *MultipleChoice) Next(value string) string {
	avail := m.Completions(value)
	if len(avail) == 0 {
		return value
	}
	if value == "" {
		return avail[0]
	}
	return value + m.Delimiter + avail[0]
}

// File completes file or directory names from the filesystem.
type File struct {
	DirsOnly   bool
	Extensions []string
	Root       string
}

func (f *File) Completions(value string) []string {
	dir := f.Root
	if dir == "" {
		dir = "."
	}
	prefix := value
	if value != "" {
		if d := filepath.Dir(value); d != "." || strings.HasPrefix(value, "./") {
			dir = d
		}
		prefix = filepath.Base(value)
		if value == "" || strings.HasSuffix(value, string(filepath.Separator)) {
			prefix = ""
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		if f.DirsOnly && !e.IsDir() {
			continue
		}
		if !e.IsDir() && !f.matchesExtension(name) {
			continue
		}
		if dir != "." || strings.HasPrefix(value, "./") {
			name = filepath.Join(dir, name)
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (f *File) matchesExtension(name string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range f.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (f *File) Next(value string) string {
	candidates := f.Completions(value)
	if len(candidates) == 1 && candidates[0] == value {
		// The value is itself a completed candidate. Filtering by it
		// would only ever return it back, so cycle among the entries
		// of its directory instead.
		candidates = f.Completions(filepath.Dir(value) + string(filepath.Separator))
	}
	if len(candidates) == 0 {
		return value
	}
	for i, c := range candidates {
		if c == value {
			return candidates[(i+1)%len(candidates)]
		}
	}
	return candidates[0]
}
