package app

import (
	"context"
	"fmt"
	"time"

	"github.com/evanschultz/taskboard/internal/domain"
	"github.com/google/uuid"
)

// DefaultJournalLimit caps the retained activity entries when no limit is configured.
const DefaultJournalLimit = 200

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	JournalLimit int
}

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// NewTaskID returns a time-ordered UUIDv7 string, falling back to a random UUID.
func NewTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Service owns the board for one session and applies every transition through the reducer.
// It is not safe for concurrent use; the TUI drives it from a single update loop.
type Service struct {
	board        domain.Board
	journal      Journal
	idGen        IDGenerator
	clock        Clock
	journalLimit int
}

// NewService constructs a service around an initial board. journal may be nil.
func NewService(board domain.Board, journal Journal, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = NewTaskID
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.JournalLimit <= 0 {
		cfg.JournalLimit = DefaultJournalLimit
	}
	return &Service{
		board:        board,
		journal:      journal,
		idGen:        idGen,
		clock:        clock,
		journalLimit: cfg.JournalLimit,
	}
}

// Board returns the current board state.
func (s *Service) Board() domain.Board {
	return s.board
}

// Counts derives totals for the current board.
func (s *Service) Counts() domain.Counts {
	return domain.Count(s.board)
}

// Dispatch applies one action. The board is committed before the journal write, so a
// returned error never rolls back the transition.
func (s *Service) Dispatch(ctx context.Context, action domain.Action) (bool, error) {
	prev := s.board
	next, changed := domain.Reduce(prev, action)
	if !changed {
		return false, nil
	}
	s.board = next
	event, ok := changeEventFor(prev, next, action)
	if !ok {
		return true, nil
	}
	if err := s.record(ctx, event); err != nil {
		return true, err
	}
	return true, nil
}

// SetTaskDraft replaces the pending task text.
func (s *Service) SetTaskDraft(text string) bool {
	changed, _ := s.Dispatch(context.Background(), domain.SetTaskDraft{Text: text})
	return changed
}

// SetCategoryDraft replaces the pending category text.
func (s *Service) SetCategoryDraft(text string) bool {
	changed, _ := s.Dispatch(context.Background(), domain.SetCategoryDraft{Text: text})
	return changed
}

// SubmitTask adds the pending task text as a new task under a fresh id.
func (s *Service) SubmitTask(ctx context.Context) (domain.Task, bool, error) {
	id := s.idGen()
	changed, err := s.Dispatch(ctx, domain.SubmitTask{ID: id})
	if !changed {
		return domain.Task{}, false, err
	}
	task, _ := s.board.Task(id)
	return task, true, err
}

// ToggleTask flips completion for one task.
func (s *Service) ToggleTask(ctx context.Context, taskID string) (bool, error) {
	return s.Dispatch(ctx, domain.ToggleTask{ID: taskID})
}

// DeleteTask removes one task.
func (s *Service) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	return s.Dispatch(ctx, domain.DeleteTask{ID: taskID})
}

// SubmitCategory registers the pending category text.
func (s *Service) SubmitCategory(ctx context.Context) (bool, error) {
	return s.Dispatch(ctx, domain.SubmitCategory{})
}

// SetFilter selects the active category filter.
func (s *Service) SetFilter(ctx context.Context, label string) (bool, error) {
	return s.Dispatch(ctx, domain.SetFilter{Label: label})
}

// CycleFilter moves the active filter through the selector options.
func (s *Service) CycleFilter(ctx context.Context, delta int) (bool, error) {
	return s.Dispatch(ctx, domain.CycleFilter{Delta: delta})
}

// ToggleTheme flips the presentation theme.
func (s *Service) ToggleTheme(ctx context.Context) (bool, error) {
	return s.Dispatch(ctx, domain.ToggleTheme{})
}

// ListChangeEvents returns up to limit recent journal entries, newest first.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	if limit <= 0 || limit > s.journalLimit {
		limit = s.journalLimit
	}
	return s.journal.ListChangeEvents(ctx, limit)
}

// record appends one event and trims the journal to the configured size.
func (s *Service) record(ctx context.Context, event domain.ChangeEvent) error {
	if s.journal == nil {
		return nil
	}
	event.OccurredAt = s.clock().UTC()
	if err := s.journal.AppendChangeEvent(ctx, event); err != nil {
		return fmt.Errorf("record %s event: %w", event.Operation, err)
	}
	if err := s.journal.PruneChangeEvents(ctx, s.journalLimit); err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	return nil
}

// changeEventFor maps one committed transition to its journal entry. Draft edits are not journaled.
func changeEventFor(prev, next domain.Board, action domain.Action) (domain.ChangeEvent, bool) {
	switch a := action.(type) {
	case domain.SubmitTask:
		task, _ := next.Task(a.ID)
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationCreate,
			TaskID:    task.ID,
			Label:     task.Category,
			Summary:   fmt.Sprintf("added %q", task.Text),
		}, true
	case domain.ToggleTask:
		task, _ := next.Task(a.ID)
		state := "reopened"
		if task.Completed {
			state = "completed"
		}
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationToggle,
			TaskID:    task.ID,
			Label:     task.Category,
			Summary:   fmt.Sprintf("%s %q", state, task.Text),
			Metadata:  map[string]string{"completed": fmt.Sprintf("%t", task.Completed)},
		}, true
	case domain.DeleteTask:
		task, _ := prev.Task(a.ID)
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationDelete,
			TaskID:    task.ID,
			Label:     task.Category,
			Summary:   fmt.Sprintf("deleted %q", task.Text),
		}, true
	case domain.SubmitCategory:
		labels := next.Categories.Labels()
		label := labels[len(labels)-1]
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationCategory,
			Label:     label,
			Summary:   fmt.Sprintf("added category %q", label),
		}, true
	case domain.SetFilter, domain.CycleFilter:
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationFilter,
			Label:     next.Session.Filter,
			Summary:   fmt.Sprintf("filter %s", next.Session.Filter),
			Metadata:  map[string]string{"from": prev.Session.Filter},
		}, true
	case domain.ToggleTheme:
		mode := "light"
		if next.Session.Dark {
			mode = "dark"
		}
		return domain.ChangeEvent{
			Operation: domain.ChangeOperationTheme,
			Summary:   "theme " + mode,
			Metadata:  map[string]string{"theme": mode},
		}, true
	default:
		return domain.ChangeEvent{}, false
	}
}
