package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/evanschultz/taskboard/internal/app"
	"github.com/evanschultz/taskboard/internal/domain"
	"github.com/evanschultz/taskboard/internal/theme"
)

// fakeJournal records change events in memory.
type fakeJournal struct {
	events    []domain.ChangeEvent
	appendErr error
}

// AppendChangeEvent appends one event unless appendErr is set.
func (f *fakeJournal) AppendChangeEvent(_ context.Context, event domain.ChangeEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return nil
}

// ListChangeEvents returns newest-first events.
func (f *fakeJournal) ListChangeEvents(_ context.Context, limit int) ([]domain.ChangeEvent, error) {
	out := make([]domain.ChangeEvent, 0, len(f.events))
	for idx := len(f.events) - 1; idx >= 0 && len(out) < limit; idx-- {
		out = append(out, f.events[idx])
	}
	return out, nil
}

// PruneChangeEvents is a no-op for tests.
func (f *fakeJournal) PruneChangeEvents(context.Context, int) error {
	return nil
}

// newTestService builds a two-task board service.
func newTestService(t *testing.T, journal app.Journal) *app.Service {
	t.Helper()
	report, err := domain.NewTask("t-a", "write report", "work")
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	milk, err := domain.NewTask("t-b", "buy milk", "life")
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	milk.Completed = true
	board, err := domain.NewBoard(domain.BoardInput{
		AllLabel:           "all",
		UncategorizedLabel: "uncategorized",
		Categories:         []string{"work", "life"},
		Tasks:              []domain.Task{report, milk},
	})
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	next := 0
	ids := func() string {
		next++
		return "new-" + string(rune('0'+next))
	}
	clock := func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	return app.NewService(board, journal, ids, clock, app.ServiceConfig{})
}

// newTestModel builds a model over a fresh service.
func newTestModel(t *testing.T, journal app.Journal, opts ...Option) (Model, *app.Service) {
	t.Helper()
	svc := newTestService(t, journal)
	return NewModel(svc, opts...), svc
}

// keyRune builds a printable key press.
func keyRune(r rune) tea.KeyPressMsg {
	if r == ' ' {
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// keyCode builds a non-printable key press.
func keyCode(code rune, mod tea.KeyMod) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Mod: mod}
}

// press applies key presses without running returned commands.
func press(t *testing.T, m Model, msgs ...tea.KeyPressMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		next, ok := updated.(Model)
		if !ok {
			t.Fatalf("Update() returned %T, want Model", updated)
		}
		m = next
	}
	return m
}

// typeText types s one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, keyRune(r))
	}
	return m
}

var (
	enterKey    = keyCode(tea.KeyEnter, 0)
	escKey      = keyCode(tea.KeyEscape, 0)
	tabKey      = keyCode(tea.KeyTab, 0)
	shiftTabKey = keyCode(tea.KeyTab, tea.ModShift)
	ctrlTKey    = keyCode('t', tea.ModCtrl)
	ctrlCKey    = keyCode('c', tea.ModCtrl)
)

// sameColor reports whether two colors resolve to the same RGBA.
func sameColor(a, b interface{ RGBA() (uint32, uint32, uint32, uint32) }) bool {
	if a == nil || b == nil {
		return false
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// TestModelInitialRender verifies seeded tasks, counts, and categories render.
func TestModelInitialRender(t *testing.T) {
	m, _ := newTestModel(t, &fakeJournal{})
	if m.focus != focusList {
		t.Fatalf("expected list focus, got %v", m.focus)
	}
	if cmd := m.Init(); cmd != nil {
		t.Fatal("expected nil init command")
	}
	out := m.render()
	for _, want := range []string{
		"write report",
		"buy milk",
		"[x]",
		"[ ]",
		"total: 2 | completed: 1 | incomplete: 1",
		"work (1)",
		"life: 1 (1 done)",
		"‹ all ›",
		"[ add ]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected render to contain %q\n%s", want, out)
		}
	}
}

// TestModelSidePanelOmitsAllOption verifies the category panel lists only registered categories.
func TestModelSidePanelOmitsAllOption(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	board := svc.Board()
	panel := m.renderSidePanel(board, domain.Count(board), newStyles(theme.For(false)))
	if strings.Contains(panel, "all (") {
		t.Fatalf("expected no all entry in category panel\n%s", panel)
	}
	for _, want := range []string{"work (1)", "life (1)"} {
		if !strings.Contains(panel, want) {
			t.Fatalf("expected %q in category panel\n%s", want, panel)
		}
	}
	if strings.Contains(panel, "●") {
		t.Fatalf("expected no active marker while filtering all\n%s", panel)
	}

	m = press(t, m, keyRune(']'))
	board = svc.Board()
	panel = m.renderSidePanel(board, domain.Count(board), newStyles(theme.For(false)))
	if !strings.Contains(panel, "● work (1)") {
		t.Fatalf("expected active marker on work\n%s", panel)
	}
}

// TestModelTypingMirrorsDraft verifies text input edits land in the board draft.
func TestModelTypingMirrorsDraft(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune('n'))
	if m.focus != focusTaskInput {
		t.Fatalf("expected task input focus, got %v", m.focus)
	}
	m = typeText(t, m, "ship it")
	if got := svc.Board().Session.TaskDraft; got != "ship it" {
		t.Fatalf("expected draft %q, got %q", "ship it", got)
	}
	if got := m.taskInput.Value(); got != "ship it" {
		t.Fatalf("expected input value %q, got %q", "ship it", got)
	}
}

// TestModelAddTaskUsesActiveFilter verifies enter adds under the filter category.
func TestModelAddTaskUsesActiveFilter(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune(']'))
	if got := svc.Board().Session.Filter; got != "work" {
		t.Fatalf("expected filter work, got %q", got)
	}
	m = press(t, m, keyRune('n'))
	m = typeText(t, m, "  plan sprint ")
	m = press(t, m, enterKey)

	board := svc.Board()
	if len(board.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(board.Tasks))
	}
	added := board.Tasks[2]
	if added.Text != "plan sprint" || added.Category != "work" || added.Completed {
		t.Fatalf("unexpected added task %#v", added)
	}
	if board.Session.TaskDraft != "" || m.taskInput.Value() != "" {
		t.Fatalf("expected cleared drafts, got board=%q input=%q", board.Session.TaskDraft, m.taskInput.Value())
	}
	if m.focus != focusTaskInput {
		t.Fatalf("expected focus to stay in task input, got %v", m.focus)
	}
	if !strings.Contains(m.status, "plan sprint") {
		t.Fatalf("unexpected status %q", m.status)
	}
	visible := board.Visible()
	if m.selected != len(visible)-1 || visible[m.selected].ID != added.ID {
		t.Fatalf("expected new task selected, got index %d", m.selected)
	}
}

// TestModelAddTaskUnderAllIsUncategorized verifies the all filter uses the sentinel.
func TestModelAddTaskUnderAllIsUncategorized(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune('n'))
	m = typeText(t, m, "call mom")
	m = press(t, m, enterKey)
	board := svc.Board()
	if got := board.Tasks[len(board.Tasks)-1].Category; got != "uncategorized" {
		t.Fatalf("expected uncategorized, got %q", got)
	}
}

// TestModelBlankSubmitIsNoop verifies whitespace drafts are not added.
func TestModelBlankSubmitIsNoop(t *testing.T) {
	journal := &fakeJournal{}
	m, svc := newTestModel(t, journal)
	m = press(t, m, keyRune('n'))
	m = typeText(t, m, "   ")
	m = press(t, m, enterKey)
	if got := len(svc.Board().Tasks); got != 2 {
		t.Fatalf("expected 2 tasks, got %d", got)
	}
	if len(journal.events) != 0 {
		t.Fatalf("expected no journal events, got %d", len(journal.events))
	}
	if m.status != "nothing to add" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

// TestModelToggleAndDeleteSelected verifies list actions target the selected row.
func TestModelToggleAndDeleteSelected(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune('x'))
	if task, _ := svc.Board().Task("t-a"); !task.Completed {
		t.Fatal("expected t-a completed after x")
	}
	m = press(t, m, keyRune(' '))
	if task, _ := svc.Board().Task("t-a"); task.Completed {
		t.Fatal("expected t-a reopened after space")
	}

	m = press(t, m, keyRune('j'), keyRune('d'))
	if _, ok := svc.Board().Task("t-b"); ok {
		t.Fatal("expected t-b deleted")
	}
	if m.selected != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", m.selected)
	}

	m = press(t, m, keyRune('d'), keyRune('d'))
	if got := len(svc.Board().Tasks); got != 0 {
		t.Fatalf("expected empty board, got %d tasks", got)
	}
	if !strings.Contains(m.render(), "no tasks") {
		t.Fatal("expected empty list placeholder")
	}
}

// TestModelFilterRestrictsList verifies filter cycling and the rendered subset.
func TestModelFilterRestrictsList(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune(']'))
	out := m.render()
	if !strings.Contains(out, "write report") || strings.Contains(out, "buy milk") {
		t.Fatalf("expected only work tasks\n%s", out)
	}
	if !strings.Contains(out, "‹ work ›") {
		t.Fatal("expected selector to show work")
	}

	m = press(t, m, keyRune('['), keyRune('['))
	if got := svc.Board().Session.Filter; got != "life" {
		t.Fatalf("expected wrap to life, got %q", got)
	}

	m = press(t, m, tabKey, tabKey, tabKey)
	if m.focus != focusSelector {
		t.Fatalf("expected selector focus, got %v", m.focus)
	}
	m = press(t, m, keyCode(tea.KeyRight, 0))
	if got := svc.Board().Session.Filter; got != "all" {
		t.Fatalf("expected selector to wrap to all, got %q", got)
	}
}

// TestModelAddCategory verifies category creation through the side panel input.
func TestModelAddCategory(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune('c'))
	if m.focus != focusCategoryInput {
		t.Fatalf("expected category input focus, got %v", m.focus)
	}
	m = typeText(t, m, "errands")
	m = press(t, m, enterKey)
	board := svc.Board()
	if !board.Categories.Contains("errands") {
		t.Fatal("expected errands registered")
	}
	if board.Session.CategoryDraft != "" || m.categoryInput.Value() != "" {
		t.Fatal("expected category draft cleared")
	}
	if !strings.Contains(m.render(), "errands (0)") {
		t.Fatal("expected errands in side panel")
	}

	m = typeText(t, m, "work")
	m = press(t, m, enterKey)
	if got := svc.Board().Categories.Len(); got != 3 {
		t.Fatalf("expected 3 categories, got %d", got)
	}
	if !strings.Contains(m.status, "already exists") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.categoryInput.Value() != "work" {
		t.Fatalf("expected rejected draft kept, got %q", m.categoryInput.Value())
	}
}

// TestModelThemeToggleAppliesViewColors verifies the view carries the palette colors.
func TestModelThemeToggleAppliesViewColors(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{}, WithTitle("board"))
	v := m.View()
	if !v.AltScreen {
		t.Fatal("expected alt screen")
	}
	if v.WindowTitle != "board" {
		t.Fatalf("unexpected window title %q", v.WindowTitle)
	}
	if !sameColor(v.BackgroundColor, lipgloss.Color(theme.Light.Background)) {
		t.Fatal("expected light background")
	}

	m = press(t, m, keyRune('t'))
	if !svc.Board().Session.Dark {
		t.Fatal("expected dark theme")
	}
	v = m.View()
	if !sameColor(v.BackgroundColor, lipgloss.Color(theme.Dark.Background)) {
		t.Fatal("expected dark background")
	}
	if !sameColor(v.ForegroundColor, lipgloss.Color(theme.Dark.Foreground)) {
		t.Fatal("expected dark foreground")
	}

	m = press(t, m, keyRune('n'), ctrlTKey)
	if svc.Board().Session.Dark {
		t.Fatal("expected ctrl+t to toggle from the task input")
	}
	if m.taskInput.Value() != "" {
		t.Fatalf("expected ctrl+t not to type, got %q", m.taskInput.Value())
	}
	if len(svc.Board().Tasks) != 2 {
		t.Fatal("expected theme toggles to leave tasks untouched")
	}
}

// TestModelConfiguredThemeKey verifies configured bindings replace the default.
func TestModelConfiguredThemeKey(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{}, WithKeyConfig(KeyConfig{ToggleTheme: "m"}))
	m = press(t, m, keyRune('t'))
	if svc.Board().Session.Dark {
		t.Fatal("expected t to be unbound")
	}
	press(t, m, keyRune('m'))
	if !svc.Board().Session.Dark {
		t.Fatal("expected m to toggle theme")
	}
}

// TestModelCopySelectedTask verifies clipboard writes and failures.
func TestModelCopySelectedTask(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, &fakeJournal{}, WithClipboard(func(text string) error {
		copied = text
		return nil
	}))
	m = press(t, m, keyRune('j'), keyRune('y'))
	if copied != "buy milk" {
		t.Fatalf("expected copied text %q, got %q", "buy milk", copied)
	}
	if !strings.Contains(m.status, "copied") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, _ = newTestModel(t, &fakeJournal{}, WithClipboard(func(string) error {
		return errors.New("no display")
	}))
	m = press(t, m, keyRune('y'))
	if m.status != "copy failed: no display" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

// TestModelActivityLogOverlay verifies journal entries reach the overlay.
func TestModelActivityLogOverlay(t *testing.T) {
	journal := &fakeJournal{}
	m, _ := newTestModel(t, journal)
	m = press(t, m, keyRune('x'), keyRune(']'), keyRune('g'))
	if m.mode != modeActivityLog {
		t.Fatalf("expected activity mode, got %v", m.mode)
	}
	if len(m.activity) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(m.activity))
	}
	if m.activity[0].Operation != domain.ChangeOperationFilter {
		t.Fatalf("expected newest entry first, got %q", m.activity[0].Operation)
	}
	if !strings.Contains(m.render(), "Activity Log") {
		t.Fatal("expected activity overlay title")
	}

	m = press(t, m, keyRune('x'))
	if m.mode != modeActivityLog {
		t.Fatal("expected list keys to be ignored while overlay is open")
	}
	m = press(t, m, escKey)
	if m.mode != modeNone {
		t.Fatalf("expected overlay closed, got %v", m.mode)
	}
}

// TestModelActivityLogWithoutJournal verifies the disabled journal message.
func TestModelActivityLogWithoutJournal(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyRune('g'))
	if !errors.Is(m.activityErr, app.ErrNoJournal) {
		t.Fatalf("expected ErrNoJournal, got %v", m.activityErr)
	}
	if !strings.Contains(m.render(), "(journal disabled)") {
		t.Fatal("expected disabled journal message")
	}
}

// TestModelJournalFailureKeepsState verifies failed journal writes surface on the status line.
func TestModelJournalFailureKeepsState(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{appendErr: errors.New("disk gone")})
	m = press(t, m, keyRune('x'))
	if task, _ := svc.Board().Task("t-a"); !task.Completed {
		t.Fatal("expected toggle committed despite journal failure")
	}
	if !strings.HasPrefix(m.status, "activity log unavailable:") || !strings.Contains(m.status, "disk gone") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

// TestModelHelpOverlay verifies the help overlay opens and closes.
func TestModelHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, &fakeJournal{})
	m = press(t, m, keyRune('?'))
	if m.mode != modeHelp {
		t.Fatalf("expected help mode, got %v", m.mode)
	}
	md := m.helpMarkdown()
	for _, want := range []string{"## Tasks", "toggle theme", "new category", "`ctrl+c`"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected help markdown to contain %q\n%s", want, md)
		}
	}
	if out := m.render(); out == "" {
		t.Fatal("expected help overlay render")
	}
	m = press(t, m, keyRune('?'))
	if m.mode != modeNone {
		t.Fatal("expected ? to close help")
	}
}

// TestModelFocusCycle verifies tab order and escape handling.
func TestModelFocusCycle(t *testing.T) {
	m, _ := newTestModel(t, &fakeJournal{})
	order := []focusZone{focusCategoryInput, focusTaskInput, focusSelector, focusList}
	for _, want := range order {
		m = press(t, m, tabKey)
		if m.focus != want {
			t.Fatalf("expected focus %v, got %v", want, m.focus)
		}
	}
	m = press(t, m, shiftTabKey)
	if m.focus != focusSelector {
		t.Fatalf("expected shift+tab to reach selector, got %v", m.focus)
	}
	m = press(t, m, escKey)
	if m.focus != focusList {
		t.Fatalf("expected esc to return to list, got %v", m.focus)
	}
	m = press(t, m, keyRune('n'))
	if !m.taskInput.Focused() {
		t.Fatal("expected task input focused")
	}
	m = press(t, m, escKey)
	if m.focus != focusList || m.taskInput.Focused() {
		t.Fatal("expected esc to blur the task input")
	}
}

// TestModelQuitKeys verifies q quits from the list but types inside inputs.
func TestModelQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, &fakeJournal{})
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	m = press(t, m, keyRune('n'))
	updated, _ := m.Update(keyRune('q'))
	if got := updated.(Model).taskInput.Value(); got != "q" {
		t.Fatalf("expected q typed into input, got %q", got)
	}

	_, cmd = updated.Update(ctrlCKey)
	if cmd == nil {
		t.Fatal("expected ctrl+c quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg from ctrl+c")
	}
}

// TestModelWindowResize verifies resize and the stacked layout.
func TestModelWindowResize(t *testing.T) {
	m, _ := newTestModel(t, &fakeJournal{}, WithCategoryStats(false))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = updated.(Model)
	if m.width != 60 || m.height != 30 {
		t.Fatalf("unexpected size %dx%d", m.width, m.height)
	}
	if _, stacked := m.columnWidths(); !stacked {
		t.Fatal("expected stacked layout at 60 columns")
	}
	out := m.render()
	if got := lipgloss.Height(out); got != 30 {
		t.Fatalf("expected 30 rendered lines, got %d", got)
	}
	if strings.Contains(out, "(1 done)") {
		t.Fatal("expected stats hidden")
	}
}

// TestWindowBounds verifies list windows keep the selection visible.
func TestWindowBounds(t *testing.T) {
	tests := []struct {
		total, selected, size int
		start, end            int
	}{
		{0, 0, 5, 0, 0},
		{3, 1, 5, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
	}
	for _, tc := range tests {
		start, end := windowBounds(tc.total, tc.selected, tc.size)
		if start != tc.start || end != tc.end {
			t.Fatalf("windowBounds(%d,%d,%d) = %d,%d want %d,%d", tc.total, tc.selected, tc.size, start, end, tc.start, tc.end)
		}
	}
}

// TestTextHelpers verifies truncation, wrapping, and line fitting.
func TestTextHelpers(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate() = %q", got)
	}
	if got := wrapIndex(0, -1, 4); got != 3 {
		t.Fatalf("wrapIndex() = %d", got)
	}
	if got := wrapIndex(3, 1, 4); got != 0 {
		t.Fatalf("wrapIndex() = %d", got)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("fitLines() = %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Fatalf("fitLines() = %q", got)
	}
}

// TestModelLongTaskTextIsKept verifies long entries reach the board untruncated.
func TestModelLongTaskTextIsKept(t *testing.T) {
	m, svc := newTestModel(t, &fakeJournal{})
	long := strings.Repeat("lorem ipsum ", 40)
	m = press(t, m, keyRune('n'))
	m = typeText(t, m, long)
	if got := svc.Board().Session.TaskDraft; got != long {
		t.Fatalf("expected %d-char draft, got %d chars", len(long), len(got))
	}
	m = press(t, m, enterKey)
	tasks := svc.Board().Tasks
	if got := tasks[len(tasks)-1].Text; got != strings.TrimSpace(long) {
		t.Fatalf("expected full task text, got %d chars", len(got))
	}
}
