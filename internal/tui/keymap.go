package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	forceQuit     key.Binding
	toggleHelp    key.Binding
	nextFocus     key.Binding
	prevFocus     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	filterPrev    key.Binding
	filterNext    key.Binding
	toggleTask    key.Binding
	deleteTask    key.Binding
	newTask       key.Binding
	newCategory   key.Binding
	toggleTheme   key.Binding
	themeAnywhere key.Binding
	copyTask      key.Binding
	activityLog   key.Binding
	submit        key.Binding
	cancel        key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		nextFocus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevFocus:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		filterPrev:    key.NewBinding(key.WithKeys("[", "h", "left"), key.WithHelp("[/h", "previous category")),
		filterNext:    key.NewBinding(key.WithKeys("]", "l", "right"), key.WithHelp("]/l", "next category")),
		toggleTask:    key.NewBinding(key.WithKeys("space", " ", "x"), key.WithHelp("space/x", "toggle done")),
		deleteTask:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		newTask:       key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new task")),
		newCategory:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new category")),
		toggleTheme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		themeAnywhere: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle theme")),
		copyTask:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		activityLog:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
	}
}

// applyConfig overrides configurable bindings, keeping defaults for blank values.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggleTheme, cfg.ToggleTheme, "t", "toggle theme")
	configureBinding(&k.copyTask, cfg.CopyTask, "y", "copy task")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
}

// configureBinding replaces one binding's keys and help text.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys and its help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if raw == " " {
		value = "space"
	}
	if value == "" {
		value = fallback
	}
	if strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newTask, k.toggleTask, k.deleteTask, k.filterNext, k.toggleTheme, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.toggleTask, k.deleteTask, k.copyTask},
		{k.newTask, k.newCategory, k.submit, k.cancel, k.nextFocus, k.prevFocus},
		{k.filterPrev, k.filterNext, k.toggleTheme, k.themeAnywhere, k.activityLog, k.toggleHelp, k.quit, k.forceQuit},
	}
}

// inputHelp lists the bindings active while a text field is focused.
func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.submit, k.cancel, k.nextFocus, k.themeAnywhere, k.forceQuit}
}
