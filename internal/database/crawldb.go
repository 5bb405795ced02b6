package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/burrowsec/bober/internal/frontier"
	"github.com/burrowsec/bober/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl history: one row per
// session plus one row per considered canonical key. Keeping history across
// runs lets an engagement diff what a target exposed last week against what
// it exposes today.
//
// Design decision: We use a single database file for all sessions rather
// than one file per target. This keeps cross-session queries (all visits of
// one host over time) cheap and backup a single-file copy.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: visits are
	// inserted while the crawl runs, and WAL keeps readers unblocked.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "bober.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the crawl inserts sequentially anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Sessions store one row per crawl run
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		scope TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		duration_ms INTEGER DEFAULT 0,
		pages_fetched INTEGER DEFAULT 0,
		fetch_failures INTEGER DEFAULT 0,
		forbidden_skipped INTEGER DEFAULT 0,
		recursion_trap_skipped INTEGER DEFAULT 0,
		out_of_scope_skipped INTEGER DEFAULT 0,
		unique_keys INTEGER DEFAULT 0,
		termination TEXT DEFAULT '',
		error TEXT DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start_url ON sessions(start_url);
	CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);

	-- Visits store one row per canonical key a session considered
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		canonical_key TEXT NOT NULL,
		url TEXT NOT NULL,
		outcome TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(session_id, canonical_key)
	);

	CREATE INDEX IF NOT EXISTS idx_visits_session ON visits(session_id);
	CREATE INDEX IF NOT EXISTS idx_visits_key ON visits(canonical_key);
	CREATE INDEX IF NOT EXISTS idx_visits_outcome ON visits(outcome);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SessionRecord is a stored session row.
type SessionRecord struct {
	ID                   int64
	StartURL             string
	Scope                string
	StartedAt            time.Time
	Duration             time.Duration
	PagesFetched         int
	FetchFailures        int
	ForbiddenSkipped     int
	RecursionTrapSkipped int
	OutOfScopeSkipped    int
	UniqueKeys           int
	Termination          string
	Error                string
}

// VisitRecord is a stored visit row.
type VisitRecord struct {
	ID           int64
	SessionID    int64
	CanonicalKey string
	URL          string
	Outcome      string
	Timestamp    time.Time
}

// CreateSession inserts a new session row and returns its ID. Counters are
// filled in by FinishSession when the crawl terminates.
func (cdb *CrawlDB) CreateSession(ctx context.Context, startURL, scope string) (int64, error) {
	result, err := cdb.db.ExecContext(ctx,
		`INSERT INTO sessions (start_url, scope) VALUES (?, ?)`,
		startURL, scope,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}
	return id, nil
}

// InsertVisit records one visited-set entry for a session. The UNIQUE
// constraint mirrors the in-memory dedup invariant: a second insert for the
// same key in the same session updates the outcome, covering the
// reservation-then-finalize lifecycle of fetched entries.
func (cdb *CrawlDB) InsertVisit(ctx context.Context, sessionID int64, record frontier.Record) error {
	query := `
	INSERT INTO visits (session_id, canonical_key, url, outcome, timestamp)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(session_id, canonical_key) DO UPDATE SET
		outcome = excluded.outcome,
		timestamp = excluded.timestamp
	`
	_, err := cdb.db.ExecContext(ctx, query,
		sessionID,
		record.Key,
		record.URL,
		record.Outcome.String(),
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

// SaveVisits stores every record of a finished session in one transaction.
func (cdb *CrawlDB) SaveVisits(ctx context.Context, sessionID int64, records []frontier.Record) error {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	query := `
	INSERT INTO visits (session_id, canonical_key, url, outcome, timestamp)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(session_id, canonical_key) DO UPDATE SET
		outcome = excluded.outcome,
		timestamp = excluded.timestamp
	`
	for _, record := range records {
		if _, err := tx.ExecContext(ctx, query,
			sessionID, record.Key, record.URL, record.Outcome.String(), record.Timestamp,
		); err != nil {
			return fmt.Errorf("failed to insert visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visits: %w", err)
	}
	return nil
}

// FinishSession fills in the final counters from the crawl report.
func (cdb *CrawlDB) FinishSession(ctx context.Context, sessionID int64, report *model.CrawlReport) error {
	query := `
	UPDATE sessions SET
		duration_ms = ?,
		pages_fetched = ?,
		fetch_failures = ?,
		forbidden_skipped = ?,
		recursion_trap_skipped = ?,
		out_of_scope_skipped = ?,
		unique_keys = ?,
		termination = ?,
		error = ?
	WHERE id = ?
	`
	_, err := cdb.db.ExecContext(ctx, query,
		report.Duration.Milliseconds(),
		report.PagesFetched,
		report.FetchFailures,
		report.ForbiddenSkipped,
		report.RecursionTrapSkipped,
		report.OutOfScopeSkipped,
		report.UniqueKeys,
		report.Termination,
		report.Error,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

// RecentSessions returns the most recent sessions, newest first.
func (cdb *CrawlDB) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	query := `
	SELECT id, start_url, scope, started_at, duration_ms, pages_fetched,
	       fetch_failures, forbidden_skipped, recursion_trap_skipped,
	       out_of_scope_skipped, unique_keys, termination, error
	FROM sessions
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`
	rows, err := cdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var sessions []SessionRecord
	for rows.Next() {
		var s SessionRecord
		var durationMs int64
		if err := rows.Scan(
			&s.ID, &s.StartURL, &s.Scope, &s.StartedAt, &durationMs,
			&s.PagesFetched, &s.FetchFailures, &s.ForbiddenSkipped,
			&s.RecursionTrapSkipped, &s.OutOfScopeSkipped, &s.UniqueKeys,
			&s.Termination, &s.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Duration = time.Duration(durationMs) * time.Millisecond
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// VisitsBySession returns every visit of one session in insertion order.
func (cdb *CrawlDB) VisitsBySession(ctx context.Context, sessionID int64) ([]VisitRecord, error) {
	query := `
	SELECT id, session_id, canonical_key, url, outcome, timestamp
	FROM visits
	WHERE session_id = ?
	ORDER BY id
	`
	rows, err := cdb.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var visits []VisitRecord
	for rows.Next() {
		var v VisitRecord
		if err := rows.Scan(
			&v.ID, &v.SessionID, &v.CanonicalKey, &v.URL, &v.Outcome, &v.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}
