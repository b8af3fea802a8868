package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Config struct {
	UI      UIConfig      `toml:"ui"`
	Board   BoardConfig   `toml:"board"`
	Journal JournalConfig `toml:"journal"`
	Logging LoggingConfig `toml:"logging"`
	Keys    KeyConfig     `toml:"keys"`
}

type UIConfig struct {
	Theme              Theme  `toml:"theme"`
	AllLabel           string `toml:"all_label"`
	UncategorizedLabel string `toml:"uncategorized_label"`
	ShowCategoryStats  bool   `toml:"show_category_stats"`
}

type BoardConfig struct {
	Categories []string     `toml:"categories"`
	SeedTasks  bool         `toml:"seed_tasks"`
	Tasks      []TaskConfig `toml:"tasks"`
}

type TaskConfig struct {
	Text      string `toml:"text"`
	Category  string `toml:"category"`
	Completed bool   `toml:"completed"`
}

type JournalConfig struct {
	Enabled   bool `toml:"enabled"`
	MaxEvents int  `toml:"max_events"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	ToggleTheme string `toml:"toggle_theme"`
	CopyTask    string `toml:"copy_task"`
	ActivityLog string `toml:"activity_log"`
}

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// fixedKeys are bound by the board and cannot be reassigned through [keys].
var fixedKeys = []string{
	"q", "ctrl+c", "?", "tab", "shift+tab", "enter", "esc",
	"k", "up", "j", "down", "[", "h", "left", "]", "l", "right",
	"space", "x", "d", "delete", "n", "a", "c", "ctrl+t",
}

func defaultTasks() []TaskConfig {
	return []TaskConfig{
		{Text: "Finish the project report", Category: "work"},
		{Text: "Buy groceries", Category: "life", Completed: true},
		{Text: "Study Go concurrency patterns", Category: "study"},
		{Text: "Gym workout", Category: "health"},
		{Text: "Read tech articles", Category: "study"},
	}
}

func Default() Config {
	return Config{
		UI: UIConfig{
			Theme:              ThemeLight,
			AllLabel:           "all",
			UncategorizedLabel: "uncategorized",
			ShowCategoryStats:  true,
		},
		Board: BoardConfig{
			Categories: []string{"work", "life", "study", "health"},
			SeedTasks:  true,
			Tasks:      defaultTasks(),
		},
		Journal: JournalConfig{
			Enabled:   true,
			MaxEvents: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".taskboard/log",
			},
		},
		Keys: KeyConfig{
			ToggleTheme: "t",
			CopyTask:    "y",
			ActivityLog: "g",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Lists present in the file replace the defaults instead of extending them.
	var lists struct {
		Board struct {
			Categories *[]string     `toml:"categories"`
			Tasks      *[]TaskConfig `toml:"tasks"`
		} `toml:"board"`
	}
	if err := toml.Unmarshal(content, &lists); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	cfg.Board.Categories, cfg.Board.Tasks = nil, nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if lists.Board.Categories == nil {
		cfg.Board.Categories = slices.Clone(defaults.Board.Categories)
	}
	if lists.Board.Tasks == nil {
		cfg.Board.Tasks = slices.Clone(defaults.Board.Tasks)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.UI.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}

	allLabel := strings.TrimSpace(c.UI.AllLabel)
	uncategorized := strings.TrimSpace(c.UI.UncategorizedLabel)
	if allLabel == "" {
		return errors.New("ui.all_label is required")
	}
	if uncategorized == "" {
		return errors.New("ui.uncategorized_label is required")
	}
	if allLabel == uncategorized {
		return fmt.Errorf("ui.uncategorized_label must differ from ui.all_label: %q", uncategorized)
	}

	seen := map[string]struct{}{}
	for idx, raw := range c.Board.Categories {
		label := strings.TrimSpace(raw)
		if label == "" {
			return fmt.Errorf("board.categories[%d] is empty", idx)
		}
		if label == allLabel {
			return fmt.Errorf("board.categories[%d] collides with ui.all_label: %q", idx, label)
		}
		if _, ok := seen[label]; ok {
			return fmt.Errorf("board.categories[%d] is duplicated: %s", idx, label)
		}
		seen[label] = struct{}{}
	}

	for idx, task := range c.Board.Tasks {
		if strings.TrimSpace(task.Text) == "" {
			return fmt.Errorf("board.tasks[%d].text is required", idx)
		}
		category := strings.TrimSpace(task.Category)
		if category == "" || category == uncategorized {
			continue
		}
		if _, ok := seen[category]; !ok {
			return fmt.Errorf("board.tasks[%d] references unknown category %q", idx, category)
		}
	}

	if c.Journal.MaxEvents < 0 {
		return errors.New("journal.max_events must be >= 0")
	}

	if err := c.Keys.validate(Default().Keys); err != nil {
		return err
	}

	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if !slices.Contains(validLogLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

// validate rejects bindings that shadow a fixed key or each other. Blank values use defaults.
func (k KeyConfig) validate(defaults KeyConfig) error {
	bindings := []struct {
		name, raw, fallback string
	}{
		{"keys.toggle_theme", k.ToggleTheme, defaults.ToggleTheme},
		{"keys.copy_task", k.CopyTask, defaults.CopyTask},
		{"keys.activity_log", k.ActivityLog, defaults.ActivityLog},
	}
	taken := map[string]string{}
	for _, b := range bindings {
		value := normalizeKey(b.raw, b.fallback)
		if slices.Contains(fixedKeys, value) {
			return fmt.Errorf("%s %q is already bound", b.name, value)
		}
		if other, ok := taken[value]; ok {
			return fmt.Errorf("%s %q duplicates %s", b.name, value, other)
		}
		taken[value] = b.name
	}
	return nil
}

// normalizeKey maps a configured key to its matcher form. Single runes keep their case.
func normalizeKey(raw, fallback string) string {
	if raw == " " {
		return "space"
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		value = fallback
	}
	if utf8.RuneCountInString(value) == 1 {
		return value
	}
	return strings.ToLower(value)
}

// SeedTasks returns the configured seed tasks with blank categories resolved to the
// uncategorized label, or nil when seeding is disabled.
func (c Config) SeedTasks() []TaskConfig {
	if !c.Board.SeedTasks {
		return nil
	}
	out := make([]TaskConfig, 0, len(c.Board.Tasks))
	for _, task := range c.Board.Tasks {
		task.Text = strings.TrimSpace(task.Text)
		task.Category = strings.TrimSpace(task.Category)
		if task.Category == "" {
			task.Category = strings.TrimSpace(c.UI.UncategorizedLabel)
		}
		out = append(out, task)
	}
	return out
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	content, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return content, nil
}

// Write stores cfg at path, creating parent directories. Existing files are kept unless overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}
	content, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
