package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/log"
	"github.com/google/uuid"
)

// DefaultHistoryLimit caps List when no limit is given.
const DefaultHistoryLimit = 50

const historySchema = `
CREATE TABLE IF NOT EXISTS load_history (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	format      TEXT NOT NULL,
	digest      TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	error       TEXT NOT NULL,
	duration_ns INTEGER NOT NULL,
	at_ns       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_load_history_at ON load_history (at_ns DESC);
`

// Event is one recorded configuration load.
type Event struct {
	ID       string
	Path     string
	Format   string
	Digest   string // SHA-256 of the canonical encoding, empty on failure
	Outcome  string
	Error    string
	Duration time.Duration
	At       time.Time
}

// EventFromLoad converts a loader notification into a history row.
func EventFromLoad(ev config.LoadEvent) Event {
	out := Event{
		ID:       ev.ID,
		Path:     ev.Path,
		Format:   string(ev.Format),
		Digest:   ev.Digest,
		Outcome:  ev.Outcome,
		Duration: ev.Duration,
		At:       ev.At,
	}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
	}
	return out
}

// HistoryStore persists load events.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := Open(path, DefaultConfig())
	if err != nil {
		return nil, err
	}
	s, err := NewHistoryStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewHistoryStore wraps db and ensures the schema exists.
func NewHistoryStore(db *sql.DB) (*HistoryStore, error) {
	if _, err := db.Exec(historySchema); err != nil {
		return nil, fmt.Errorf("sqlite: migrate history: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Record stores ev. A missing ID or timestamp is filled in.
func (s *HistoryStore) Record(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO load_history (id, path, format, digest, outcome, error, duration_ns, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Path, ev.Format, ev.Digest, ev.Outcome, ev.Error, int64(ev.Duration), ev.At.UnixNano())
	if err != nil {
		return fmt.Errorf("sqlite: record load %s: %w", ev.ID, err)
	}
	return nil
}

// List returns the most recent events, newest first.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, format, digest, outcome, error, duration_ns, at_ns
		 FROM load_history ORDER BY at_ns DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev         Event
			durationNS int64
			atNS       int64
		)
		if err := rows.Scan(&ev.ID, &ev.Path, &ev.Format, &ev.Digest, &ev.Outcome, &ev.Error, &durationNS, &atNS); err != nil {
			return nil, fmt.Errorf("sqlite: scan history row: %w", err)
		}
		ev.Duration = time.Duration(durationNS)
		ev.At = time.Unix(0, atNS)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Observer returns a loader observer that records every load. Write
// failures are logged, never surfaced to the load itself.
func (s *HistoryStore) Observer(ctx context.Context) func(config.LoadEvent) {
	logger := log.WithComponentFromContext(ctx, "history")
	return func(ev config.LoadEvent) {
		if err := s.Record(ctx, EventFromLoad(ev)); err != nil {
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "history.record_failed").
				Str(log.FieldLoadID, ev.ID).
				Msg("failed to record load history")
		}
	}
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
