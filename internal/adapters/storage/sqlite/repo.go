package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/taskboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores the session journal in a private in-memory database.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a journal that lives only as long as the returned repository.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			operation TEXT NOT NULL,
			task_id TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_task ON change_events(task_id);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// AppendChangeEvent inserts a change-event ledger record.
func (r *Repository) AppendChangeEvent(ctx context.Context, event domain.ChangeEvent) error {
	operation := normalizeChangeOperation(string(event.Operation))
	if operation == "" {
		return fmt.Errorf("append change event: unknown operation %q", event.Operation)
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode change event metadata: %w", err)
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO change_events(operation, task_id, label, summary, metadata_json, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, string(operation), strings.TrimSpace(event.TaskID), event.Label, event.Summary, string(metadataJSON), ts(occurredAt))
	return err
}

// ListChangeEvents lists recent events for activity-log consumption, newest first.
func (r *Repository) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, operation, task_id, label, summary, metadata_json, created_at
		FROM change_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event       domain.ChangeEvent
			opRaw       string
			metadataRaw string
			createdRaw  string
		)
		if err := rows.Scan(&event.ID, &opRaw, &event.TaskID, &event.Label, &event.Summary, &metadataRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = normalizeChangeOperation(opRaw)
		event.OccurredAt = parseTS(createdRaw)
		if strings.TrimSpace(metadataRaw) == "" {
			metadataRaw = "{}"
		}
		if err := json.Unmarshal([]byte(metadataRaw), &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode change_events.metadata_json: %w", err)
		}
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// PruneChangeEvents keeps only the newest keep events.
func (r *Repository) PruneChangeEvents(ctx context.Context, keep int) error {
	if keep <= 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM change_events`)
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM change_events
		WHERE id NOT IN (SELECT id FROM change_events ORDER BY id DESC LIMIT ?)
	`, keep)
	return err
}

// normalizeChangeOperation maps stored values onto known operations.
func normalizeChangeOperation(raw string) domain.ChangeOperation {
	switch op := domain.ChangeOperation(strings.TrimSpace(strings.ToLower(raw))); op {
	case domain.ChangeOperationCreate,
		domain.ChangeOperationToggle,
		domain.ChangeOperationDelete,
		domain.ChangeOperationCategory,
		domain.ChangeOperationFilter,
		domain.ChangeOperationTheme:
		return op
	default:
		return ""
	}
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
