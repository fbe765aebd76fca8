package match

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kobzarvs/prompt/internal/config"
)

// Program is the result of resolving an executable path to a known program.
type Program struct {
	Canonical string
	Matched   string
	Source    string // "builtin", "config" or "unknown"
}

type builtinPattern struct {
	kind    string // "exact", "prefix", "suffix"
	pattern string
}

type builtinProgram struct {
	name     string
	patterns []builtinPattern
}

// Cross toolchains name their tools <triple>-gcc, <triple>-ld and so on,
// hence the suffix patterns. Order matters: names like "gcc-ar" match both
// the gcc prefix and the ar suffix, and the earlier entry wins.
var builtinPrograms = []builtinProgram{
	{"gcc", []builtinPattern{
		{"suffix", "-gcc"},
		{"suffix", "-g++"},
		{"exact", "gcc"},
		{"exact", "g++"},
		{"exact", "cc"},
		{"exact", "c++"},
		{"prefix", "gcc-"},
		{"prefix", "g++-"},
	}},
	{"clang", []builtinPattern{
		{"suffix", "-clang"},
		{"suffix", "-clang++"},
		{"exact", "clang"},
		{"exact", "clang++"},
		{"prefix", "clang-"},
		{"prefix", "clang++-"},
	}},
	{"rustc", []builtinPattern{{"exact", "rustc"}}},
	{"cargo", []builtinPattern{{"exact", "cargo"}}},
	{"go", []builtinPattern{{"exact", "go"}}},
	{"python", []builtinPattern{
		{"exact", "python"},
		{"exact", "python3"},
		{"prefix", "python3."},
		{"exact", "python2"},
	}},
	{"make", []builtinPattern{
		{"exact", "make"},
		{"exact", "gmake"},
		{"exact", "bmake"},
	}},
	{"cmake", []builtinPattern{{"exact", "cmake"}}},
	{"ninja", []builtinPattern{{"exact", "ninja"}}},
	{"ld", []builtinPattern{
		{"suffix", "-ld"},
		{"exact", "ld"},
		{"exact", "ld.lld"},
		{"exact", "ld.gold"},
		{"exact", "ld.bfd"},
	}},
	{"ar", []builtinPattern{
		{"suffix", "-ar"},
		{"exact", "ar"},
		{"exact", "llvm-ar"},
	}},
	{"as", []builtinPattern{
		{"suffix", "-as"},
		{"exact", "as"},
	}},
}

// DetectProgram resolves an executable path or name to a canonical program.
// Builtin patterns are tried first, then config-defined aliases. An unknown
// executable resolves to its own basename so config lookups still work.
func DetectProgram(executable string, cfg config.Config) Program {
	basename := filepath.Base(executable)
	if name := matchBuiltin(basename); name != "" {
		return Program{Canonical: name, Matched: basename, Source: "builtin"}
	}
	if name := matchConfig(basename, cfg); name != "" {
		return Program{Canonical: name, Matched: basename, Source: "config"}
	}
	return Program{Canonical: basename, Matched: basename, Source: "unknown"}
}

func matchBuiltin(basename string) string {
	lower := strings.ToLower(basename)
	for _, bp := range builtinPrograms {
		for _, p := range bp.patterns {
			switch p.kind {
			case "exact":
				if lower == p.pattern {
					return bp.name
				}
			case "prefix":
				if strings.HasPrefix(lower, p.pattern) {
					return bp.name
				}
			case "suffix":
				if strings.HasSuffix(lower, p.pattern) {
					return bp.name
				}
			}
		}
	}
	return ""
}

func matchConfig(basename string, cfg config.Config) string {
	lower := strings.ToLower(basename)
	for _, program := range cfg.Programs {
		if strings.ToLower(program.Name) == lower {
			return program.Name
		}
		for _, alias := range program.Aliases {
			switch {
			case strings.HasPrefix(alias, "glob:"):
				pattern := strings.ToLower(strings.TrimPrefix(alias, "glob:"))
				if ok, err := path.Match(pattern, lower); err == nil && ok {
					return program.Name
				}
			case strings.HasPrefix(alias, "regexp:"):
				pattern := strings.TrimPrefix(alias, "regexp:")
				re, err := regexp.Compile("(?i)^(?:" + pattern + ")")
				if err != nil {
					continue
				}
				if re.MatchString(basename) {
					return program.Name
				}
			default:
				if strings.ToLower(alias) == lower {
					return program.Name
				}
			}
		}
	}
	return ""
}
