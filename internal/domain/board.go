package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Session holds presentation-only state: theme, active filter and pending input buffers.
type Session struct {
	Dark          bool
	Filter        string
	TaskDraft     string
	CategoryDraft string
}

// Board is the complete application state for one session.
type Board struct {
	Tasks         []Task
	Categories    Registry
	Uncategorized string
	Session       Session
}

// BoardInput holds the values used to build an initial board.
type BoardInput struct {
	AllLabel           string
	UncategorizedLabel string
	Categories         []string
	Tasks              []Task
	Dark               bool
}

// NewBoard validates in and returns a board filtered to the all label.
func NewBoard(in BoardInput) (Board, error) {
	registry, err := NewRegistry(in.AllLabel, in.Categories)
	if err != nil {
		return Board{}, fmt.Errorf("category registry: %w", err)
	}
	uncategorized := strings.TrimSpace(in.UncategorizedLabel)
	if uncategorized == "" || uncategorized == registry.AllLabel() {
		return Board{}, fmt.Errorf("uncategorized label %q: %w", in.UncategorizedLabel, ErrInvalidLabel)
	}

	tasks := make([]Task, 0, len(in.Tasks))
	seen := map[string]struct{}{}
	for idx, raw := range in.Tasks {
		task, err := NewTask(raw.ID, raw.Text, raw.Category)
		if err != nil {
			return Board{}, fmt.Errorf("tasks[%d]: %w", idx, err)
		}
		if task.Category != uncategorized && !slices.Contains(registry.labels, task.Category) {
			return Board{}, fmt.Errorf("tasks[%d] category %q: %w", idx, task.Category, ErrInvalidLabel)
		}
		if _, ok := seen[task.ID]; ok {
			return Board{}, fmt.Errorf("tasks[%d] id %q is duplicated: %w", idx, task.ID, ErrInvalidID)
		}
		seen[task.ID] = struct{}{}
		task.Completed = raw.Completed
		tasks = append(tasks, task)
	}

	return Board{
		Tasks:         tasks,
		Categories:    registry,
		Uncategorized: uncategorized,
		Session: Session{
			Dark:   in.Dark,
			Filter: registry.AllLabel(),
		},
	}, nil
}

// Visible returns the tasks shown under the active filter.
func (b Board) Visible() []Task {
	return FilteredView(b.Tasks, b.Session.Filter, b.Categories.AllLabel())
}

// Task returns the task with id.
func (b Board) Task(id string) (Task, bool) {
	idx := indexOfTask(b.Tasks, id)
	if idx < 0 {
		return Task{}, false
	}
	return b.Tasks[idx], true
}

// NewTaskCategory resolves the category a submitted task receives under the active filter.
func (b Board) NewTaskCategory() string {
	if b.Session.Filter == b.Categories.AllLabel() {
		return b.Uncategorized
	}
	return b.Session.Filter
}

// Action is a single state transition understood by Reduce.
type Action interface {
	apply(Board) (Board, bool)
}

// Reduce applies a to b and reports whether anything changed. The input board is never
// modified; when nothing changes the returned board is b itself.
func Reduce(b Board, a Action) (Board, bool) {
	if a == nil {
		return b, false
	}
	return a.apply(b)
}

// SetTaskDraft replaces the pending new-task text.
type SetTaskDraft struct {
	Text string
}

func (a SetTaskDraft) apply(b Board) (Board, bool) {
	if b.Session.TaskDraft == a.Text {
		return b, false
	}
	b.Session.TaskDraft = a.Text
	return b, true
}

// SetCategoryDraft replaces the pending new-category text.
type SetCategoryDraft struct {
	Text string
}

func (a SetCategoryDraft) apply(b Board) (Board, bool) {
	if b.Session.CategoryDraft == a.Text {
		return b, false
	}
	b.Session.CategoryDraft = a.Text
	return b, true
}

// SubmitTask adds the pending task text under id and clears the buffer.
type SubmitTask struct {
	ID string
}

func (a SubmitTask) apply(b Board) (Board, bool) {
	task, err := NewTask(a.ID, b.Session.TaskDraft, b.NewTaskCategory())
	if err != nil {
		return b, false
	}
	if indexOfTask(b.Tasks, task.ID) >= 0 {
		return b, false
	}
	tasks := make([]Task, len(b.Tasks), len(b.Tasks)+1)
	copy(tasks, b.Tasks)
	b.Tasks = append(tasks, task)
	b.Session.TaskDraft = ""
	return b, true
}

// ToggleTask flips completion for the task with id.
type ToggleTask struct {
	ID string
}

func (a ToggleTask) apply(b Board) (Board, bool) {
	idx := indexOfTask(b.Tasks, a.ID)
	if idx < 0 {
		return b, false
	}
	b.Tasks = slices.Clone(b.Tasks)
	b.Tasks[idx].Toggle()
	return b, true
}

// DeleteTask removes the task with id.
type DeleteTask struct {
	ID string
}

func (a DeleteTask) apply(b Board) (Board, bool) {
	idx := indexOfTask(b.Tasks, a.ID)
	if idx < 0 {
		return b, false
	}
	tasks := make([]Task, 0, len(b.Tasks)-1)
	tasks = append(tasks, b.Tasks[:idx]...)
	b.Tasks = append(tasks, b.Tasks[idx+1:]...)
	return b, true
}

// SubmitCategory registers the pending category text and clears the buffer.
type SubmitCategory struct{}

func (SubmitCategory) apply(b Board) (Board, bool) {
	registry, ok := b.Categories.Add(b.Session.CategoryDraft)
	if !ok {
		return b, false
	}
	b.Categories = registry
	b.Session.CategoryDraft = ""
	return b, true
}

// SetFilter selects the active category filter. Unknown labels are ignored.
type SetFilter struct {
	Label string
}

func (a SetFilter) apply(b Board) (Board, bool) {
	if b.Session.Filter == a.Label || !b.Categories.Contains(a.Label) {
		return b, false
	}
	b.Session.Filter = a.Label
	return b, true
}

// CycleFilter moves the active filter by Delta positions through the selector options, wrapping.
type CycleFilter struct {
	Delta int
}

func (a CycleFilter) apply(b Board) (Board, bool) {
	options := b.Categories.Options()
	if a.Delta == 0 || len(options) < 2 {
		return b, false
	}
	current := slices.Index(options, b.Session.Filter)
	if current < 0 {
		current = 0
	}
	next := (current + a.Delta) % len(options)
	if next < 0 {
		next += len(options)
	}
	return SetFilter{Label: options[next]}.apply(b)
}

// ToggleTheme flips between the light and dark presentation.
type ToggleTheme struct{}

func (ToggleTheme) apply(b Board) (Board, bool) {
	b.Session.Dark = !b.Session.Dark
	return b, true
}
