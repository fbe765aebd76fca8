package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	Color          bool     `toml:"color"`
	DimBlend       float64  `toml:"dim-blend"`
	LightsOffFocus []string `toml:"lights-off-focus"`
}

// Validator configures a completion validator attached to a rule. Only the
// fields matching Type are meaningful.
type Validator struct {
	Type       string   `toml:"type"`
	Options    []string `toml:"options"`
	Extensions []string `toml:"extensions"`
	Delimiter  string   `toml:"delimiter"`
	Prefix     string   `toml:"prefix"`
	Minimum    int      `toml:"minimum"`
	Maximum    int      `toml:"maximum"`
	Directory  string   `toml:"directory"`
}

// Rule assigns a category to tokens matching one of its patterns. Rules are
// evaluated in declaration order and the first match wins.
type Rule struct {
	Category  string     `toml:"category"`
	Regexps   []string   `toml:"regexps"`
	Validator *Validator `toml:"validator"`
}

// Program carries rules that apply only when the edited command line invokes
// the named program. Aliases accept literal names, "glob:pattern" or
// "regexp:pattern".
type Program struct {
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
	Flags   []Rule   `toml:"flags"`
}

type Theme struct {
	Theme             string            `toml:"theme"`
	Default           string            `toml:"default"`
	Background        string            `toml:"background"`
	Cursor            string            `toml:"cursor"`
	Duplicate         string            `toml:"duplicate"`
	DuplicateCurrent  string            `toml:"duplicate-current"`
	DuplicateSelected string            `toml:"duplicate-selected"`
	Categories        map[string]string `toml:"categories"`
}

type Keymap struct {
	Normal     map[string]string `toml:"normal"`
	Duplicates map[string]string `toml:"duplicates"`
}

type Config struct {
	Editor   EditorOptions     `toml:"editor"`
	Theme    Theme             `toml:"theme"`
	Flags    []Rule            `toml:"flag"`
	Programs []Program         `toml:"program"`
	Keymap   Keymap            `toml:"keymap"`
	Aliases  map[string]string `toml:"aliases"`
}

// FlagsForProgram returns the global rules followed by the rules of the named
// program, preserving declaration order so earlier rules keep precedence.
func (c Config) FlagsForProgram(name string) []Rule {
	rules := make([]Rule, 0, len(c.Flags))
	rules = append(rules, c.Flags...)
	for _, p := range c.Programs {
		if p.Name == name {
			rules = append(rules, p.Flags...)
			break
		}
	}
	return rules
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			Color:    true,
			DimBlend: 0.6,
		},
		Theme: Theme{
			Default:           "#B3B1AD",
			Background:        "#0A0E14",
			Cursor:            "reverse",
			Duplicate:         "bold #FF3333",
			DuplicateCurrent:  "bold reverse",
			DuplicateSelected: "bold #FFD700",
			Categories: map[string]string{
				"Executable":   "bold #FFD173",
				"Includes":     "#59C2FF",
				"Libraries":    "#D4BFFF",
				"Outputs":      "#BAE67E",
				"Warnings":     "#FFD700",
				"Optimization": "#5CCFE6",
				"Debug":        "#FF8F40",
				"Architecture": "#73D0FF",
			},
		},
		Flags: []Rule{
			{
				Category: "Includes",
				Regexps: []string{
					`-(I|isystem|idirafter|iprefix|iwithprefix|iwithprefixbefore)\s*(.*)`,
					`--(include-with-prefix|include-with-prefix-before|include-with-prefix-after)\s*(.*)`,
				},
				Validator: &Validator{Type: "directory"},
			},
			{
				Category: "Libraries",
				Regexps: []string{
					`-(L|-library-path)\s*(.*)`,
					`-(l)(.+)`,
				},
				Validator: &Validator{Type: "directory"},
			},
			{
				Category: "Outputs",
				Regexps:  []string{`-(o)\s*(.*)`},
				Validator: &Validator{
					Type:       "file",
					Extensions: []string{".o", ".out", ".exe", ""},
				},
			},
			{
				Category:  "Warnings",
				Regexps:   []string{`-(W)(no-)?(.+)`},
				Validator: &Validator{Type: "warnings", Prefix: "no-"},
			},
			{
				Category: "Optimization",
				Regexps:  []string{`-(O)(\d|s|g|fast)?`},
				Validator: &Validator{
					Type:    "choice",
					Options: []string{"0", "1", "2", "3", "s", "g", "fast"},
				},
			},
			{
				Category: "Debug",
				Regexps:  []string{`-(g)(\d)?`},
				Validator: &Validator{
					Type:    "choice",
					Options: []string{"", "1", "2", "3"},
				},
			},
		},
		Keymap: Keymap{
			Normal: map[string]string{
				"ctrl+a":        "move-line-start",
				"ctrl+e":        "move-line-end",
				"ctrl+b":        "move-char-left",
				"ctrl+f":        "move-char-right",
				"left":          "move-char-left",
				"right":         "move-char-right",
				"home":          "move-line-start",
				"end":           "move-line-end",
				"alt+b":         "move-word-left",
				"alt+f":         "move-word-right",
				"alt+left":      "move-param-prev",
				"alt+right":     "move-param-next",
				"ctrl+d":        "delete-char",
				"del":           "delete-char",
				"backspace":     "delete-char-left",
				"ctrl+w":        "delete-word-left",
				"alt+d":         "delete-word-right",
				"ctrl+k":        "delete-to-end",
				"ctrl+u":        "delete-to-start",
				"alt+backspace": "delete-param",
				"ctrl+_":        "undo",
				"ctrl+r":        "rebuild",
				"tab":           "complete-next",
				"ctrl+l":        "lights-off",
				"ctrl+g":        "show-duplicates",
				"ctrl+q":        "quit -p",
				"ctrl+c":        "quit -y",
				"esc":           "quit",
				"enter":         "quit -p",
			},
			Duplicates: map[string]string{
				"left":  "duplicate-prev",
				"right": "duplicate-next",
				"up":    "duplicate-previous-group",
				"down":  "duplicate-next-group",
				"space": "duplicate-select",
				"a":     "duplicate-all",
				"n":     "duplicate-none",
				"k":     "duplicates-keep",
				"d":     "duplicates-delete",
				"f":     "duplicates-first",
				"esc":   "duplicates-exit",
				"enter": "duplicates-exit",
				"q":     "duplicates-exit",
			},
		},
		Aliases: map[string]string{
			"q":   "quit",
			"qp":  "quit -p",
			"lo":  "lights-off",
			"dup": "show-duplicates",
		},
	}
}

// Load reads the user config and merges it over the defaults: first
// config.toml, then every conf.d/*.toml drop-in in lexical order, then the
// named theme file if one is set.
func Load() (Config, error) {
	cfg := Default()
	dir, err := ConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := mergeFile(&cfg, filepath.Join(dir, "config.toml")); err != nil {
		return cfg, err
	}
	dropins, err := dropinFiles(filepath.Join(dir, "conf.d"))
	if err != nil {
		return cfg, err
	}
	for _, path := range dropins {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var user Config
	md, err := toml.Decode(string(data), &user)
	if err != nil {
		return err
	}
	merge(cfg, user, md)
	return nil
}

func dropinFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// merge overlays user onto cfg. Rule and program lists extend the existing
// ones, maps overlay key by key, scalars override when set. Booleans cannot
// signal "unset" through their zero value, so those consult the decode
// metadata instead.
func merge(cfg *Config, user Config, md toml.MetaData) {
	if md.IsDefined("editor", "color") {
		cfg.Editor.Color = user.Editor.Color
	}
	if user.Editor.DimBlend > 0 {
		cfg.Editor.DimBlend = user.Editor.DimBlend
	}
	if user.Editor.LightsOffFocus != nil {
		cfg.Editor.LightsOffFocus = user.Editor.LightsOffFocus
	}
	mergeTheme(&cfg.Theme, user.Theme)
	cfg.Flags = append(cfg.Flags, user.Flags...)
	cfg.Programs = append(cfg.Programs, user.Programs...)
	for k, v := range user.Keymap.Normal {
		cfg.Keymap.Normal[k] = v
	}
	for k, v := range user.Keymap.Duplicates {
		cfg.Keymap.Duplicates[k] = v
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	for k, v := range user.Aliases {
		cfg.Aliases[k] = v
	}
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Default != "" {
		dst.Default = src.Default
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.Cursor != "" {
		dst.Cursor = src.Cursor
	}
	if src.Duplicate != "" {
		dst.Duplicate = src.Duplicate
	}
	if src.DuplicateCurrent != "" {
		dst.DuplicateCurrent = src.DuplicateCurrent
	}
	if src.DuplicateSelected != "" {
		dst.DuplicateSelected = src.DuplicateSelected
	}
	if dst.Categories == nil {
		dst.Categories = map[string]string{}
	}
	for k, v := range src.Categories {
		dst.Categories[k] = v
	}
}

// ApplyTheme overlays t onto the configured theme.
func (c *Config) ApplyTheme(t Theme) {
	mergeTheme(&c.Theme, t)
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && !themeEmpty(t) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func themeEmpty(t Theme) bool {
	return t.Default == "" && t.Background == "" && t.Cursor == "" &&
		t.Duplicate == "" && len(t.Categories) == 0
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("PROMPT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "prompt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "prompt"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
