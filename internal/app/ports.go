package app

import (
	"context"

	"github.com/evanschultz/taskboard/internal/domain"
)

// Journal records board transitions for the in-session activity log.
type Journal interface {
	AppendChangeEvent(context.Context, domain.ChangeEvent) error
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
	PruneChangeEvents(context.Context, int) error
}
