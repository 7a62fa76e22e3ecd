package log

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const createTraceTableSQL = `
CREATE TABLE IF NOT EXISTS conversions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    level TEXT NOT NULL,
    message TEXT NOT NULL,
    direction TEXT,
    sql_type TEXT,
    c_type TEXT,
    sqlstate TEXT,
    extra TEXT
);
CREATE INDEX IF NOT EXISTS idx_conversions_timestamp ON conversions(timestamp);
CREATE INDEX IF NOT EXISTS idx_conversions_sqlstate ON conversions(sqlstate);
`

// traceTimeFormat sorts lexically in time order.
const traceTimeFormat = "2006-01-02 15:04:05.000000000"

// traceColumns are the attributes stored in their own columns. Everything
// else is kept as JSON in extra.
var traceColumns = map[string]int{
	"direction": 0,
	"sql_type":  1,
	"c_type":    2,
	"sqlstate":  3,
}

// traceStore is the database shared by a TraceHandler and its derivatives.
type traceStore struct {
	mu        sync.Mutex
	db        *sql.DB
	stmt      *sql.Stmt
	retention int
	ticker    *time.Ticker
	done      chan struct{}
	closed    bool
}

// TraceHandler writes conversion diagnostics to a SQLite database.
type TraceHandler struct {
	store  *traceStore
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

// NewTraceHandler opens or creates the trace database at cfg.DBPath.
func NewTraceHandler(cfg *Config, level slog.Level) (*TraceHandler, error) {
	db, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}

	if _, err := db.Exec(createTraceTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create conversions table: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT INTO conversions (timestamp, level, message, direction, sql_type, c_type, sqlstate, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}

	s := &traceStore{
		db:        db,
		stmt:      stmt,
		retention: cfg.RetentionDays,
		done:      make(chan struct{}),
	}
	s.startCleanup()
	return &TraceHandler{store: s, level: level}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *TraceHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle writes the record as one row.
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	var cols [4]sql.NullString
	extra := make(map[string]any)

	set := func(key string, v slog.Value) {
		if i, ok := traceColumns[key]; ok {
			cols[i] = sql.NullString{String: v.String(), Valid: true}
		} else {
			extra[key] = v.Any()
		}
	}
	for _, a := range h.attrs {
		set(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		set(h.prefix+a.Key, a.Value)
		return true
	})

	var extraText sql.NullString
	if len(extra) > 0 {
		data, err := json.Marshal(extra)
		if err != nil {
			return fmt.Errorf("encode trace attributes: %w", err)
		}
		extraText = sql.NullString{String: string(data), Valid: true}
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.store.closed {
		return nil
	}
	_, err := h.store.stmt.ExecContext(ctx,
		r.Time.UTC().Format(traceTimeFormat),
		r.Level.String(),
		r.Message,
		cols[0], cols[1], cols[2], cols[3],
		extraText,
	)
	return err
}

// WithAttrs returns a handler that adds attrs to every row.
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], a)
	}
	return &c
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// startCleanup starts the background retention ticker.
func (s *traceStore) startCleanup() {
	s.ticker = time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.cleanup(time.Now())
			case <-s.done:
				return
			}
		}
	}()
}

// cleanup deletes rows older than the retention period before now.
func (s *traceStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	cutoff := now.AddDate(0, 0, -s.retention).UTC().Format(traceTimeFormat)
	s.db.Exec("DELETE FROM conversions WHERE timestamp < ?", cutoff)
}

// Close stops the retention ticker and closes the database.
func (h *TraceHandler) Close() error {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	close(s.done)
	s.ticker.Stop()
	s.stmt.Close()
	return s.db.Close()
}
