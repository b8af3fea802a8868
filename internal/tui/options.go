package tui

// KeyConfig holds the configurable list-zone bindings. Blank values keep the defaults.
type KeyConfig struct {
	ToggleTheme string
	CopyTask    string
	ActivityLog string
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) {
		if title != "" {
			m.title = title
		}
	}
}

// WithKeyConfig applies configured key bindings.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithCategoryStats toggles the per-category stats block in the side panel.
func WithCategoryStats(show bool) Option {
	return func(m *Model) {
		m.showStats = show
	}
}

// WithClipboard replaces the clipboard writer used by the copy binding.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}
