package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Kind enumerates the flow-mod event types recorded to the audit log.
type Kind string

const (
	KindAdd    Kind = "add"
	KindDelete Kind = "delete"
	KindModify Kind = "modify"
)

// Event is one row of the audit trail.
type Event struct {
	EventID uuid.UUID
	Kind    Kind
	FlowID  uint64
	Time    time.Time
	Reason  uint32
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		event_id   TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		flow_id    INTEGER NOT NULL,
		occurred_at INTEGER NOT NULL,
		reason     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_flow_id ON events(flow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at)`,
}

// Sink is a flow.EventSink backed by a SQLite database file.
type Sink struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at path, applies the
// pragmas appropriate for a single-writer append-only log, and
// ensures the schema exists.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}

	if pingErr := db.Ping(); pingErr != nil {
		db.Close()

		return nil, fmt.Errorf("audit: ping %s: %w", path, pingErr)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()

		return nil, err
	}

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()

			return nil, fmt.Errorf("audit: schema statement %d: %w", i+1, err)
		}
	}

	return &Sink{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA mmap_size = 268435456",
		"PRAGMA cache_size = -20000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("audit: apply pragma %q: %w", p, err)
		}
	}

	return nil
}

// Close closes the underlying database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}

func (s *Sink) record(ev Event) {
	// Best-effort: an audit trail that cannot keep up must not stall
	// the flow table it observes. Failures are swallowed here; a
	// production deployment would route this to the logging sink the
	// rest of the ambient stack defines.
	_, _ = s.db.Exec(
		`INSERT INTO events (event_id, kind, flow_id, occurred_at, reason) VALUES (?, ?, ?, ?, ?)`,
		ev.EventID.String(), string(ev.Kind), ev.FlowID, ev.Time.UnixNano(), ev.Reason,
	)
}

// OnAdd implements flow.EventSink.
func (s *Sink) OnAdd(id uint64) {
	s.record(Event{EventID: uuid.New(), Kind: KindAdd, FlowID: id, Time: time.Now()})
}

// OnDelete implements flow.EventSink.
func (s *Sink) OnDelete(id uint64, reason uint32) {
	s.record(Event{EventID: uuid.New(), Kind: KindDelete, FlowID: id, Time: time.Now(), Reason: reason})
}

// OnModify implements flow.EventSink.
func (s *Sink) OnModify(id uint64) {
	s.record(Event{EventID: uuid.New(), Kind: KindModify, FlowID: id, Time: time.Now()})
}

// Events returns every recorded event for a flow ID, oldest first.
func (s *Sink) Events(flowID uint64) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT event_id, kind, flow_id, occurred_at, reason FROM events WHERE flow_id = ? ORDER BY occurred_at ASC`,
		flowID,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: query events for flow %d: %w", flowID, err)
	}
	defer rows.Close()

	var events []Event

	for rows.Next() {
		var (
			idStr    string
			kind     string
			occurred int64
		)

		ev := Event{}

		if err := rows.Scan(&idStr, &kind, &ev.FlowID, &occurred, &ev.Reason); err != nil {
			return nil, fmt.Errorf("audit: scan event row: %w", err)
		}

		parsed, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("audit: parse event id %q: %w", idStr, err)
		}

		ev.EventID = parsed
		ev.Kind = Kind(kind)
		ev.Time = time.Unix(0, occurred)
		events = append(events, ev)
	}

	return events, rows.Err()
}
