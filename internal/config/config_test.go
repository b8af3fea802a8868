package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.UI.Theme != ThemeLight {
		t.Fatalf("unexpected theme %q", cfg.UI.Theme)
	}
	if cfg.UI.AllLabel != "all" || cfg.UI.UncategorizedLabel != "uncategorized" {
		t.Fatalf("unexpected labels %#v", cfg.UI)
	}
	if len(cfg.Board.Categories) != 4 || len(cfg.Board.Tasks) != 5 {
		t.Fatalf("unexpected seed board %#v", cfg.Board)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Theme != defaults.UI.Theme {
		t.Fatalf("expected default theme, got %q", cfg.UI.Theme)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[ui]
theme = "dark"
all_label = "everything"

[board]
categories = ["home", "office"]

[[board.tasks]]
text = "Water plants"
category = "home"

[[board.tasks]]
text = "Loose end"
completed = true

[journal]
max_events = 10

[logging]
level = "debug"

[keys]
toggle_theme = "T"
`)

	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Theme != ThemeDark || cfg.UI.AllLabel != "everything" {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if cfg.UI.UncategorizedLabel != "uncategorized" {
		t.Fatalf("expected default uncategorized label, got %q", cfg.UI.UncategorizedLabel)
	}
	if strings.Join(cfg.Board.Categories, ",") != "home,office" {
		t.Fatalf("unexpected categories %#v", cfg.Board.Categories)
	}
	if cfg.Journal.MaxEvents != 10 || !cfg.Journal.Enabled {
		t.Fatalf("unexpected journal config %#v", cfg.Journal)
	}
	if cfg.Keys.ToggleTheme != "T" || cfg.Keys.CopyTask != "y" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}

	seeds := cfg.SeedTasks()
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seed tasks, got %d", len(seeds))
	}
	if seeds[1].Category != "uncategorized" || !seeds[1].Completed {
		t.Fatalf("unexpected resolved seed %#v", seeds[1])
	}
}

func TestSeedTasksDisabled(t *testing.T) {
	cfg := Default()
	cfg.Board.SeedTasks = false
	if got := cfg.SeedTasks(); got != nil {
		t.Fatalf("expected no seed tasks, got %#v", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "theme", content: "[ui]\ntheme = \"sepia\"\n"},
		{name: "blank all label", content: "[ui]\nall_label = \" \"\n"},
		{name: "labels collide", content: "[ui]\nall_label = \"x\"\nuncategorized_label = \"x\"\n"},
		{name: "category equals all", content: "[board]\ncategories = [\"all\"]\n"},
		{name: "duplicate category", content: "[board]\ncategories = [\"a\", \"a\"]\ntasks = []\n"},
		{name: "empty category", content: "[board]\ncategories = [\"\"]\ntasks = []\n"},
		{name: "unknown task category", content: "[board]\ncategories = [\"a\"]\n[[board.tasks]]\ntext = \"x\"\ncategory = \"b\"\n"},
		{name: "blank task text", content: "[board]\ncategories = [\"a\"]\n[[board.tasks]]\ntext = \" \"\ncategory = \"a\"\n"},
		{name: "negative journal", content: "[journal]\nmax_events = -1\n"},
		{name: "log level", content: "[logging]\nlevel = \"loud\"\n"},
		{name: "malformed", content: "[ui\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content), Default()); err == nil {
				t.Fatal("expected Load() error")
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.UI.Theme = ThemeDark
	cfg.Board.Categories = append(cfg.Board.Categories, "errands")
	if err := Write(path, cfg, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(path, cfg, false); err == nil {
		t.Fatal("expected existing config to be kept without overwrite")
	}
	if err := Write(path, cfg, true); err != nil {
		t.Fatalf("Write(overwrite) error = %v", err)
	}

	loaded, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.UI.Theme != ThemeDark {
		t.Fatalf("unexpected theme %q", loaded.UI.Theme)
	}
	if got := loaded.Board.Categories[len(loaded.Board.Categories)-1]; got != "errands" {
		t.Fatalf("unexpected last category %q", got)
	}
	if len(loaded.Board.Tasks) != len(cfg.Board.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(cfg.Board.Tasks), len(loaded.Board.Tasks))
	}
}

func TestWriteRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	if err := Write(filepath.Join(t.TempDir(), "config.toml"), cfg, true); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}

func TestValidateRejectsKeyCollisions(t *testing.T) {
	tests := []struct {
		name string
		keys KeyConfig
		want string
	}{
		{name: "copy shadows delete", keys: KeyConfig{CopyTask: "d"}, want: "keys.copy_task"},
		{name: "activity shadows new task", keys: KeyConfig{ActivityLog: "n"}, want: "keys.activity_log"},
		{name: "theme shadows toggle", keys: KeyConfig{ToggleTheme: " "}, want: "keys.toggle_theme"},
		{name: "case-folded named key", keys: KeyConfig{CopyTask: "Ctrl+T"}, want: "keys.copy_task"},
		{name: "duplicate configurable", keys: KeyConfig{ToggleTheme: "v", CopyTask: "v"}, want: "duplicates keys.toggle_theme"},
		{name: "override hits default", keys: KeyConfig{ActivityLog: "y"}, want: "duplicates keys.copy_task"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Keys = tc.keys
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestValidateAcceptsDistinctKeys(t *testing.T) {
	cfg := Default()
	cfg.Keys = KeyConfig{ToggleTheme: "T", CopyTask: "ctrl+y", ActivityLog: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
