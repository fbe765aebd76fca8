package match

import (
	"regexp"
	"strings"

	"github.com/kobzarvs/prompt/internal/config"
	"github.com/kobzarvs/prompt/internal/logger"
	"github.com/kobzarvs/prompt/internal/token"
)

// CategoryExecutable is assigned to the first token of the command line
// without consulting any rule.
const CategoryExecutable = "Executable"

// Group is a capture group extracted from a matching pattern. Start and End
// are byte offsets into the token's unescaped text. Groups feed validator
// hints, they do not influence categorization.
type Group struct {
	Value string
	Start int
	End   int
	Index int
}

// Result is the categorization of one token. Category is empty when no rule
// matched; such tokens render with the theme's default color.
type Result struct {
	Token    token.Token
	Category string
	Rule     *config.Rule
	Groups   []Group
	Matched  bool
}

type compiledRule struct {
	re   *regexp.Regexp
	rule config.Rule
}

// Matcher matches tokens against the compiled rule set of one program.
// Rules keep their configured order and the first matching pattern wins.
type Matcher struct {
	rules   []compiledRule
	program Program
}

// New compiles the rule set that applies to the given executable. Patterns
// are anchored to the full token text. A pattern that fails to compile is
// logged and skipped so a bad rule can never abort a render cycle.
func New(cfg config.Config, executable string) *Matcher {
	program := DetectProgram(executable, cfg)
	m := &Matcher{program: program}
	for _, rule := range cfg.FlagsForProgram(program.Canonical) {
		for _, pattern := range rule.Regexps {
			re, err := regexp.Compile("^(?:" + pattern + ")$")
			if err != nil {
				logger.Warn("invalid rule pattern", "category", rule.Category, "pattern", pattern, "err", err)
				continue
			}
			r := rule
			m.rules = append(m.rules, compiledRule{re: re, rule: r})
		}
	}
	return m
}

// Program returns the detected program for the matcher's executable.
func (m *Matcher) Program() Program {
	return m.program
}

// Match categorizes a single token. Rules are tried in configured order
// against the unescaped text; the first full match wins.
func (m *Matcher) Match(tok token.Token) Result {
	for i := range m.rules {
		cr := &m.rules[i]
		loc := cr.re.FindStringSubmatchIndex(tok.Text)
		if loc == nil {
			continue
		}
		return Result{
			Token:    tok,
			Category: cr.rule.Category,
			Rule:     &cr.rule,
			Groups:   extractGroups(tok.Text, loc),
			Matched:  true,
		}
	}
	return Result{Token: tok}
}

// MatchAll categorizes every token. The first token is the executable and
// bypasses the rule set.
func (m *Matcher) MatchAll(tokens []token.Token) []Result {
	results := make([]Result, len(tokens))
	for i, tok := range tokens {
		if i == 0 {
			results[i] = Result{
				Token:    tok,
				Category: CategoryExecutable,
				Groups:   []Group{{Value: tok.Text, End: len(tok.Text), Index: 0}},
				Matched:  true,
			}
			continue
		}
		results[i] = m.Match(tok)
	}
	return results
}

func extractGroups(text string, loc []int) []Group {
	var groups []Group
	for i := 1; i*2+1 < len(loc); i++ {
		start, end := loc[i*2], loc[i*2+1]
		if start < 0 {
			continue
		}
		groups = append(groups, Group{
			Value: text[start:end],
			Start: start,
			End:   end,
			Index: i,
		})
	}
	if len(groups) == 0 {
		groups = append(groups, Group{Value: text, End: len(text), Index: 0})
	}
	return groups
}

// Duplicates maps each token index to the index of the first earlier token
// with the same unescaped text. Comparison is case sensitive; empty and
// whitespace-only tokens, such as a quoted " ", are never duplicates.
func Duplicates(tokens []token.Token) map[int]int {
	first := make(map[string]int, len(tokens))
	dups := make(map[int]int)
	for i, tok := range tokens {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		if j, ok := first[tok.Text]; ok {
			dups[i] = j
			continue
		}
		first[tok.Text] = i
	}
	return dups
}

// DuplicateGroup is a value that occurs more than once, with the indices of
// every occurrence in buffer order.
type DuplicateGroup struct {
	Text    string
	Indices []int
}

// DuplicateGroups collects all repeated token values, ordered by first
// occurrence.
func DuplicateGroups(tokens []token.Token) []DuplicateGroup {
	index := make(map[string]int)
	var groups []DuplicateGroup
	for i, tok := range tokens {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		if gi, ok := index[tok.Text]; ok {
			groups[gi].Indices = append(groups[gi].Indices, i)
			continue
		}
		index[tok.Text] = len(groups)
		groups = append(groups, DuplicateGroup{Text: tok.Text, Indices: []int{i}})
	}
	out := groups[:0]
	for _, g := range groups {
		if len(g.Indices) > 1 {
			out = append(out, g)
		}
	}
	return out
}
