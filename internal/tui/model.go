package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/evanschultz/taskboard/internal/app"
	"github.com/evanschultz/taskboard/internal/domain"
	"github.com/evanschultz/taskboard/internal/theme"
)

// Service is the board surface the model drives.
type Service interface {
	Board() domain.Board
	Counts() domain.Counts
	SetTaskDraft(string) bool
	SetCategoryDraft(string) bool
	SubmitTask(context.Context) (domain.Task, bool, error)
	ToggleTask(context.Context, string) (bool, error)
	DeleteTask(context.Context, string) (bool, error)
	SubmitCategory(context.Context) (bool, error)
	CycleFilter(context.Context, int) (bool, error)
	ToggleTheme(context.Context) (bool, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// focusZone identifies which part of the board receives keys.
type focusZone int

// Focus zones in tab order.
const (
	focusTaskInput focusZone = iota
	focusSelector
	focusList
	focusCategoryInput
	focusZoneCount
)

// overlayMode identifies the modal drawn above the board.
type overlayMode int

const (
	modeNone overlayMode = iota
	modeHelp
	modeActivityLog
)

const (
	defaultTitle         = "taskboard"
	activityLogMaxItems  = 50
	activityLogViewLines = 14
	sidePanelWidth       = 30
	stackedLayoutWidth   = 72
)

// Model is the Bubble Tea model for one board session.
type Model struct {
	svc  Service
	keys keyMap
	help help.Model

	taskInput     textinput.Model
	categoryInput textinput.Model

	focus    focusZone
	mode     overlayMode
	selected int

	width  int
	height int

	title     string
	status    string
	showStats bool
	copyText  func(string) error

	activity    []domain.ChangeEvent
	activityErr error

	markdown *markdownRenderer
}

// NewModel constructs a model over svc with list focus.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false

	taskInput := textinput.New()
	taskInput.Prompt = "› "
	taskInput.Placeholder = "what needs doing?"

	categoryInput := textinput.New()
	categoryInput.Prompt = "+ "
	categoryInput.Placeholder = "new category"

	m := Model{
		svc:           svc,
		keys:          newKeyMap(),
		help:          h,
		taskInput:     taskInput,
		categoryInput: categoryInput,
		focus:         focusList,
		title:         defaultTitle,
		status:        "ready",
		showStats:     true,
		copyText:      clipboard.WriteAll,
		markdown:      &markdownRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	board := svc.Board()
	m.taskInput.SetValue(board.Session.TaskDraft)
	m.categoryInput.SetValue(board.Session.CategoryDraft)
	m.applyThemeStyles(board.Session.Dark)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies one message and returns the model to redraw.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	default:
		return m.updateFocusedInput(msg)
	}
}

// handleKey routes one key press by overlay and focus zone.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}
	if m.mode != modeNone {
		return m.handleOverlayKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.themeAnywhere):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.nextFocus):
		return m, m.setFocus(focusZone(wrapIndex(int(m.focus), 1, int(focusZoneCount))))
	case key.Matches(msg, m.keys.prevFocus):
		return m, m.setFocus(focusZone(wrapIndex(int(m.focus), -1, int(focusZoneCount))))
	}

	switch m.focus {
	case focusTaskInput, focusCategoryInput:
		return m.handleInputKey(msg)
	case focusSelector:
		return m.handleSelectorKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleOverlayKey closes the active overlay.
func (m Model) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.themeAnywhere):
		m.toggleTheme()
	case key.Matches(msg, m.keys.cancel),
		key.Matches(msg, m.keys.quit),
		key.Matches(msg, m.keys.submit),
		key.Matches(msg, m.keys.toggleHelp),
		key.Matches(msg, m.keys.activityLog):
		m.mode = modeNone
		m.status = "ready"
	}
	return m, nil
}

// handleInputKey edits the focused text field and mirrors its value into the board draft.
func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.focus == focusCategoryInput {
			m.submitCategory()
		} else {
			m.submitTask()
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		return m, m.setFocus(focusList)
	}
	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards msg to the focused text field, if any.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTaskInput:
		m.taskInput, cmd = m.taskInput.Update(msg)
		m.svc.SetTaskDraft(m.taskInput.Value())
	case focusCategoryInput:
		m.categoryInput, cmd = m.categoryInput.Update(msg)
		m.svc.SetCategoryDraft(m.categoryInput.Value())
	}
	return m, cmd
}

// handleSelectorKey changes the active filter from the category selector.
func (m Model) handleSelectorKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.filterPrev):
		m.cycleFilter(-1)
	case key.Matches(msg, m.keys.filterNext):
		m.cycleFilter(1)
	case key.Matches(msg, m.keys.submit):
		m.submitTask()
	case key.Matches(msg, m.keys.cancel):
		return m, m.setFocus(focusList)
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

// handleListKey handles keys while the task list has focus.
func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.toggleTheme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.copyTask):
		m.copySelectedTask()
	case key.Matches(msg, m.keys.activityLog):
		m.openActivityLog()
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.mode = modeHelp
		m.status = "help"
	case key.Matches(msg, m.keys.moveUp):
		m.selected = clamp(m.selected-1, 0, len(m.visible())-1)
	case key.Matches(msg, m.keys.moveDown):
		m.selected = clamp(m.selected+1, 0, len(m.visible())-1)
	case key.Matches(msg, m.keys.toggleTask):
		m.toggleSelectedTask()
	case key.Matches(msg, m.keys.deleteTask):
		m.deleteSelectedTask()
	case key.Matches(msg, m.keys.filterPrev):
		m.cycleFilter(-1)
	case key.Matches(msg, m.keys.filterNext):
		m.cycleFilter(1)
	case key.Matches(msg, m.keys.newTask):
		return m, m.setFocus(focusTaskInput)
	case key.Matches(msg, m.keys.newCategory):
		return m, m.setFocus(focusCategoryInput)
	}
	return m, nil
}

// setFocus moves keyboard focus and focuses the matching text field.
func (m *Model) setFocus(zone focusZone) tea.Cmd {
	m.focus = zone
	m.taskInput.Blur()
	m.categoryInput.Blur()
	switch zone {
	case focusTaskInput:
		return m.taskInput.Focus()
	case focusCategoryInput:
		return m.categoryInput.Focus()
	}
	return nil
}

// submitTask adds the drafted task under the active category.
func (m *Model) submitTask() {
	task, added, err := m.svc.SubmitTask(context.Background())
	m.syncDrafts()
	if !added {
		m.status = "nothing to add"
		return
	}
	m.status = fmt.Sprintf("added %q to %s", task.Text, task.Category)
	for idx, visible := range m.visible() {
		if visible.ID == task.ID {
			m.selected = idx
			break
		}
	}
	m.reportJournalError(err)
}

// submitCategory registers the drafted category.
func (m *Model) submitCategory() {
	draft := strings.TrimSpace(m.svc.Board().Session.CategoryDraft)
	added, err := m.svc.SubmitCategory(context.Background())
	m.syncDrafts()
	switch {
	case added:
		m.status = fmt.Sprintf("added category %q", draft)
	case draft == "":
		m.status = "nothing to add"
	default:
		m.status = fmt.Sprintf("category %q already exists", draft)
	}
	m.reportJournalError(err)
}

// toggleSelectedTask flips completion on the selected row.
func (m *Model) toggleSelectedTask() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	changed, err := m.svc.ToggleTask(context.Background(), task.ID)
	if changed {
		state := "reopened"
		if !task.Completed {
			state = "completed"
		}
		m.status = fmt.Sprintf("%s %q", state, task.Text)
	}
	m.clampSelection()
	m.reportJournalError(err)
}

// deleteSelectedTask removes the selected row.
func (m *Model) deleteSelectedTask() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	changed, err := m.svc.DeleteTask(context.Background(), task.ID)
	if changed {
		m.status = fmt.Sprintf("deleted %q", task.Text)
	}
	m.clampSelection()
	m.reportJournalError(err)
}

// cycleFilter moves the active filter through the registry options.
func (m *Model) cycleFilter(delta int) {
	changed, err := m.svc.CycleFilter(context.Background(), delta)
	if changed {
		m.selected = 0
		m.status = "filter: " + m.svc.Board().Session.Filter
	}
	m.clampSelection()
	m.reportJournalError(err)
}

// toggleTheme flips light/dark and restyles the bubbles.
func (m *Model) toggleTheme() {
	_, err := m.svc.ToggleTheme(context.Background())
	dark := m.svc.Board().Session.Dark
	m.applyThemeStyles(dark)
	m.status = "theme: " + theme.For(dark).Name
	m.reportJournalError(err)
}

// copySelectedTask writes the selected task text to the clipboard.
func (m *Model) copySelectedTask() {
	task, ok := m.selectedTask()
	if !ok {
		m.status = "no task selected"
		return
	}
	if err := m.copyText(task.Text); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied %q", task.Text)
}

// openActivityLog loads recent journal entries into the activity overlay.
func (m *Model) openActivityLog() {
	events, err := m.svc.ListChangeEvents(context.Background(), activityLogMaxItems)
	m.activity = events
	m.activityErr = err
	m.mode = modeActivityLog
	m.status = "activity log"
}

// reportJournalError surfaces a failed journal write without touching the board.
func (m *Model) reportJournalError(err error) {
	if err != nil {
		m.status = "activity log unavailable: " + err.Error()
	}
}

// syncDrafts copies the board drafts back into the text fields.
func (m *Model) syncDrafts() {
	session := m.svc.Board().Session
	if m.taskInput.Value() != session.TaskDraft {
		m.taskInput.SetValue(session.TaskDraft)
	}
	if m.categoryInput.Value() != session.CategoryDraft {
		m.categoryInput.SetValue(session.CategoryDraft)
	}
}

// applyThemeStyles restyles the bubbles for the current theme.
func (m *Model) applyThemeStyles(dark bool) {
	m.taskInput.SetStyles(textinput.DefaultStyles(dark))
	m.categoryInput.SetStyles(textinput.DefaultStyles(dark))
	m.help.Styles = help.DefaultStyles(dark)
}

// resizeInputs fits the text fields to the current layout.
func (m *Model) resizeInputs() {
	mainWidth, _ := m.columnWidths()
	m.taskInput.SetWidth(max(10, mainWidth-28))
	m.categoryInput.SetWidth(max(10, sidePanelWidth-6))
}

// visible returns the filtered task list.
func (m Model) visible() []domain.Task {
	return m.svc.Board().Visible()
}

// selectedTask returns the task under the cursor.
func (m Model) selectedTask() (domain.Task, bool) {
	visible := m.visible()
	if len(visible) == 0 {
		return domain.Task{}, false
	}
	return visible[clamp(m.selected, 0, len(visible)-1)], true
}

func (m *Model) clampSelection() {
	m.selected = clamp(m.selected, 0, len(m.visible())-1)
}

// View renders the board and applies the theme to the terminal.
func (m Model) View() tea.View {
	palette := theme.For(m.svc.Board().Session.Dark)
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.BackgroundColor = lipgloss.Color(palette.Background)
	v.ForegroundColor = lipgloss.Color(palette.Foreground)
	v.WindowTitle = m.title
	return v
}

// render composes the full screen as a string.
func (m Model) render() string {
	board := m.svc.Board()
	counts := m.svc.Counts()
	st := newStyles(theme.For(board.Session.Dark))
	mainWidth, stacked := m.columnWidths()

	mainColumn := strings.Join([]string{
		m.renderHeader(board, st, mainWidth),
		m.renderEntryRow(board, st),
		"",
		m.renderTaskList(board, st, mainWidth),
		"",
		st.muted.Render(fmt.Sprintf("total: %d | completed: %d | incomplete: %d", counts.Total, counts.Completed, counts.Incomplete)),
	}, "\n")
	side := m.renderSidePanel(board, counts, st)

	var body string
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, mainColumn, "", side)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(mainWidth).Render(mainColumn), "  ", side)
	}
	content := body + "\n\n" + st.status.Render(m.status)

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	var helpText string
	if m.focus == focusTaskInput || m.focus == focusCategoryInput {
		helpText = helpBubble.ShortHelpView(m.keys.inputHelp())
	} else {
		helpText = helpBubble.View(m.keys)
	}
	helpLine := lipgloss.NewStyle().
		Foreground(st.mutedColor).
		BorderTop(true).
		BorderForeground(st.dimColor).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpText)

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	if overlay := m.renderOverlay(board, st); overlay != "" {
		overlayHeight := lipgloss.Height(full)
		if m.height > 0 {
			overlayHeight = m.height
		}
		full = overlayOnContent(full, overlay, m.width, overlayHeight)
	}
	return full
}

// columnWidths returns the main column width and whether the side panel stacks below it.
func (m Model) columnWidths() (int, bool) {
	width := m.width
	if width <= 0 {
		width = 100
	}
	if width < stackedLayoutWidth {
		return width, true
	}
	return width - sidePanelWidth - 2, false
}

func (m Model) renderHeader(board domain.Board, st styles, width int) string {
	badge := "☀ light"
	if board.Session.Dark {
		badge = "☾ dark"
	}
	title := st.title.Render(m.title)
	toggle := st.badge.Render(badge)
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(toggle))
	return title + strings.Repeat(" ", gap) + toggle
}

func (m Model) renderEntryRow(board domain.Board, st styles) string {
	selector := st.muted.Render("‹ " + board.Session.Filter + " ›")
	if m.focus == focusSelector {
		selector = st.focused.Render("‹ " + board.Session.Filter + " ›")
	}
	add := st.accent.Render("[ add ]")
	return m.taskInput.View() + "  " + selector + "  " + add
}

func (m Model) renderTaskList(board domain.Board, st styles, width int) string {
	visible := board.Visible()
	if len(visible) == 0 {
		return st.muted.Render("no tasks")
	}
	window := len(visible)
	if m.height > 0 {
		window = max(3, m.height-14)
	}
	selected := clamp(m.selected, 0, len(visible)-1)
	start, end := windowBounds(len(visible), selected, window)

	rows := make([]string, 0, end-start+2)
	if start > 0 {
		rows = append(rows, st.dim.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for idx := start; idx < end; idx++ {
		rows = append(rows, m.renderTaskRow(visible[idx], idx == selected && m.focus == focusList, st, width))
	}
	if end < len(visible) {
		rows = append(rows, st.dim.Render(fmt.Sprintf("  ↓ %d more", len(visible)-end)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderTaskRow(task domain.Task, selected bool, st styles, width int) string {
	cursor := "  "
	if selected {
		cursor = st.accent.Render("› ")
	}
	check := st.muted.Render("[ ]")
	text := task.Text
	badge := st.badge.Render(task.Category)
	hint := ""
	if selected {
		hint = " " + st.danger.Render("✕")
	}
	textWidth := max(4, width-lipgloss.Width(badge)-12)
	text = truncate(text, textWidth)
	if task.Completed {
		check = st.success.Render("[x]")
		text = st.done.Render(text)
	} else if selected {
		text = st.focused.Render(text)
	}
	return cursor + check + " " + text + " " + badge + hint
}

func (m Model) renderSidePanel(board domain.Board, counts domain.Counts, st styles) string {
	lines := []string{st.title.Render("categories")}
	for _, c := range counts.Categories {
		lines = append(lines, m.renderCategoryLine(c.Label, c.Total, board.Session.Filter == c.Label, st))
	}

	lines = append(lines, "", st.title.Render("new category"), m.categoryInput.View(), st.accent.Render("[ add ]"))

	if m.showStats {
		lines = append(lines, "", st.title.Render("stats"))
		for _, c := range counts.Categories {
			lines = append(lines, st.muted.Render(fmt.Sprintf("%s: %d (%d done)", c.Label, c.Total, c.Completed)))
		}
	}
	return st.panel.Width(sidePanelWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCategoryLine(label string, total int, active bool, st styles) string {
	text := fmt.Sprintf("%s (%d)", label, total)
	if active {
		return st.active.Render("● " + text)
	}
	return "  " + text
}

// renderOverlay renders the active modal, or "" when none is open.
func (m Model) renderOverlay(board domain.Board, st styles) string {
	maxWidth := m.width - 8
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.accentColor).
		Padding(0, 1)

	switch m.mode {
	case modeHelp:
		if maxWidth > 0 {
			box = box.Width(clamp(maxWidth, 40, 80))
		}
		body := m.markdown.render(m.helpMarkdown(), clamp(maxWidth-4, 24, 76), board.Session.Dark)
		return box.Render(body + "\n" + st.muted.Render("esc close"))

	case modeActivityLog:
		if maxWidth > 0 {
			box = box.Width(clamp(maxWidth, 44, 96))
		}
		lines := []string{st.title.Render("Activity Log")}
		switch {
		case errors.Is(m.activityErr, app.ErrNoJournal):
			lines = append(lines, st.muted.Render("(journal disabled)"))
		case m.activityErr != nil:
			lines = append(lines, st.danger.Render("activity log unavailable: "+m.activityErr.Error()))
		case len(m.activity) == 0:
			lines = append(lines, st.muted.Render("(no activity yet)"))
		default:
			for idx, event := range m.activity {
				if idx >= activityLogViewLines {
					break
				}
				lines = append(lines, fmt.Sprintf("%s  %-8s %s", formatActivityTimestamp(event.OccurredAt), event.Operation, truncate(event.Summary, 60)))
			}
		}
		lines = append(lines, st.muted.Render("esc close"))
		return box.Render(strings.Join(lines, "\n"))
	}
	return ""
}

// helpMarkdown lists every binding grouped by area.
func (m Model) helpMarkdown() string {
	sections := []string{"Tasks", "Entry", "View"}
	var b strings.Builder
	b.WriteString("# Keys\n")
	for idx, group := range m.keys.FullHelp() {
		if idx < len(sections) {
			fmt.Fprintf(&b, "\n## %s\n\n", sections[idx])
		}
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "- `%s` %s\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

// formatActivityTimestamp renders event times compactly for modal rows.
func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	return at.Local().Format("15:04:05")
}

// wrapIndex wraps current+delta into [0, total).
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := current + delta
	for next < 0 {
		next += total
	}
	for next >= total {
		next -= total
	}
	return next
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := max(0, selected-windowSize/2)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines trims or pads content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a width x height canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
