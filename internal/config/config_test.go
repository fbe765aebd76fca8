package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("PROMPT_CONFIG_HOME", "/tmp/prompt-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/prompt-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/prompt-config")
	}

	t.Setenv("PROMPT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/prompt" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/prompt")
	}
}

func TestDefaultRuleOrder(t *testing.T) {
	cfg := Default()
	want := []string{"Includes", "Libraries", "Outputs", "Warnings", "Optimization", "Debug"}
	if len(cfg.Flags) != len(want) {
		t.Fatalf("rule count = %d, want %d", len(cfg.Flags), len(want))
	}
	for i, w := range want {
		if cfg.Flags[i].Category != w {
			t.Fatalf("rule %d = %q, want %q", i, cfg.Flags[i].Category, w)
		}
	}
}

func TestLoadMissingConfigUsesDefaults(t *testing.T) {
	t.Setenv("PROMPT_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Editor.Color {
		t.Fatalf("color = false, want true")
	}
	if cfg.Theme.Default == "" {
		t.Fatalf("default color empty")
	}
}

func TestLoadUserConfigAppendsRules(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROMPT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[[flag]]
category = "Defines"
regexps = ['-(D)(.+)']

[keymap.normal]
"ctrl+x" = "delete-param"

[aliases]
dd = "duplicates-delete"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	defaults := Default()
	if len(cfg.Flags) != len(defaults.Flags)+1 {
		t.Fatalf("rule count = %d, want %d", len(cfg.Flags), len(defaults.Flags)+1)
	}
	last := cfg.Flags[len(cfg.Flags)-1]
	if last.Category != "Defines" {
		t.Fatalf("appended category = %q, want %q", last.Category, "Defines")
	}
	if cfg.Keymap.Normal["ctrl+x"] != "delete-param" {
		t.Fatalf("keymap override missing")
	}
	if cfg.Keymap.Normal["ctrl+a"] != "move-line-start" {
		t.Fatalf("default keymap entry lost")
	}
	if cfg.Aliases["dd"] != "duplicates-delete" {
		t.Fatalf("alias missing")
	}
}

func TestLoadUserConfigDisablesColor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROMPT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
color = false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.Color {
		t.Fatalf("color = true, want false")
	}
	if cfg.Editor.DimBlend != Default().Editor.DimBlend {
		t.Fatalf("dim-blend = %v, want default", cfg.Editor.DimBlend)
	}
}

func TestLoadDropinsMergeInOrder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROMPT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "conf.d", "10-a.toml"), `
[theme]
default = "#111111"

[[flag]]
category = "First"
regexps = ['-(a)']
`)
	writeFile(t, filepath.Join(dir, "conf.d", "20-b.toml"), `
[theme]
default = "#222222"

[[flag]]
category = "Second"
regexps = ['-(b)']
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Theme.Default != "#222222" {
		t.Fatalf("theme default = %q, want later drop-in to win", cfg.Theme.Default)
	}
	n := len(cfg.Flags)
	if cfg.Flags[n-2].Category != "First" || cfg.Flags[n-1].Category != "Second" {
		t.Fatalf("drop-in rules out of order: %q %q", cfg.Flags[n-2].Category, cfg.Flags[n-1].Category)
	}
}

func TestLoadWithThemeFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROMPT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
default = "#ABCDEF"
duplicate = "bold #FF0000"

[categories]
Includes = "#010203"
`)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[theme]
theme = "test"
background = "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Theme.Default != "#ABCDEF" {
		t.Fatalf("theme default = %q, want %q", cfg.Theme.Default, "#ABCDEF")
	}
	if cfg.Theme.Background != "#123456" {
		t.Fatalf("background = %q, want %q", cfg.Theme.Background, "#123456")
	}
	if cfg.Theme.Categories["Includes"] != "#010203" {
		t.Fatalf("category color = %q", cfg.Theme.Categories["Includes"])
	}
	if cfg.Theme.Categories["Libraries"] == "" {
		t.Fatalf("default category colors lost")
	}
}

func TestFlagsForProgram(t *testing.T) {
	cfg := Default()
	cfg.Programs = append(cfg.Programs, Program{
		Name:  "gcc",
		Flags: []Rule{{Category: "Machine", Regexps: []string{`-(m)(.+)`}}},
	})
	rules := cfg.FlagsForProgram("gcc")
	if len(rules) != len(cfg.Flags)+1 {
		t.Fatalf("rule count = %d, want %d", len(rules), len(cfg.Flags)+1)
	}
	if rules[len(rules)-1].Category != "Machine" {
		t.Fatalf("program rule not appended")
	}
	if got := cfg.FlagsForProgram("unknown"); len(got) != len(cfg.Flags) {
		t.Fatalf("unknown program rules = %d, want %d", len(got), len(cfg.Flags))
	}
}
