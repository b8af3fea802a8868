package domain

import "strings"

// Task is one unit of work shown on the board.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Category  string
}

// NewTask validates and normalizes a new, incomplete task.
func NewTask(id, text, category string) (Task, error) {
	id = strings.TrimSpace(id)
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)
	if id == "" {
		return Task{}, ErrInvalidID
	}
	if text == "" {
		return Task{}, ErrInvalidText
	}
	if category == "" {
		return Task{}, ErrInvalidLabel
	}
	return Task{
		ID:       id,
		Text:     text,
		Category: category,
	}, nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// FilteredView returns the tasks visible under filter, preserving order.
// The all label selects every task. The input slice is never modified.
func FilteredView(tasks []Task, filter, allLabel string) []Task {
	out := make([]Task, 0, len(tasks))
	if filter == allLabel {
		return append(out, tasks...)
	}
	for _, task := range tasks {
		if task.Category == filter {
			out = append(out, task)
		}
	}
	return out
}

// indexOfTask returns the position of id in tasks, or -1.
func indexOfTask(tasks []Task, id string) int {
	for idx := range tasks {
		if tasks[idx].ID == id {
			return idx
		}
	}
	return -1
}
