/*
Package sqlite provides a SQLite-backed implementation of award.Store.

PURPOSE:

	Persists the award registry across restarts and keeps a history of
	computed pay breakdowns. The registry stays the source of truth while
	the process runs; this store is written through on every upsert and
	read once at startup.

KEY TABLES:

	awards:       One row per award code. seq fixes registry order and is
	              kept when a code is replaced. version counts upserts.
	calculations: Append-only history of computed breakdowns.

SERIALIZATION:

	Awards, weeks and breakdowns are stored as JSON documents
	(github.com/goccy/go-json). Money stays decimal text, so a value
	read back is exactly the value written.

CONCURRENCY:

	Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:

	SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
	the single writer.

USAGE:

	store, err := sqlite.New("./data/fairpay.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	reg := award.NewRegistry(store)
	_ = reg.Load(ctx)

MIGRATION:

	Schema is auto-migrated on New().

SEE ALSO:
  - award/store.go: Interface definition
  - award/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/pay"
)

// Store implements award.Store and the calculation history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ award.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS awards (
		code TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		industry TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_awards_seq ON awards(seq);

	-- Calculations (append-only)
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		award_code TEXT NOT NULL,
		classification_id TEXT NOT NULL,
		week_json TEXT NOT NULL,
		breakdown_json TEXT NOT NULL,
		total_gross TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_calculations_award
		ON calculations(award_code);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AWARD STORE (award.Store interface)
// =============================================================================

// AwardRecord is a stored award with its bookkeeping columns.
type AwardRecord struct {
	Award     award.Award
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveAward inserts or replaces the award with the same code. A new code is
// placed after every existing one; a replaced code keeps its place.
func (s *Store) SaveAward(ctx context.Context, a award.Award) error {
	if a.Code == "" {
		return award.ErrEmptyCode
	}
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode award %s: %w", a.Code, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO awards (code, seq, name, industry, config_json, version, created_at, updated_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM awards), ?, ?, ?, 1, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			config_json = excluded.config_json,
			version = awards.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, query, a.Code, a.Name, a.Industry, string(doc), now, now)
	return err
}

// ListAwards returns every award in registry order.
func (s *Store) ListAwards(ctx context.Context) ([]award.Award, error) {
	records, err := s.ListAwardRecords(ctx)
	if err != nil {
		return nil, err
	}
	awards := make([]award.Award, len(records))
	for i, r := range records {
		awards[i] = r.Award
	}
	return awards, nil
}

// ListAwardRecords returns every award with its version and timestamps.
func (s *Store) ListAwardRecords(ctx context.Context) ([]AwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT config_json, version, created_at, updated_at FROM awards ORDER BY seq",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AwardRecord
	for rows.Next() {
		var r AwardRecord
		var doc, createdAt, updatedAt string
		if err := rows.Scan(&doc, &r.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(doc), &r.Award); err != nil {
			return nil, fmt.Errorf("failed to decode stored award: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// AwardVersion returns how many times code has been saved, or 0 if never.
func (s *Store) AwardVersion(ctx context.Context, code string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM awards WHERE code = ?", code).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// =============================================================================
// CALCULATION HISTORY
// =============================================================================

// Calculation is one computed breakdown and the inputs that produced it.
type Calculation struct {
	ID               string        `json:"id"`
	SessionID        string        `json:"sessionId,omitempty"`
	AwardCode        string        `json:"awardCode"`
	ClassificationID string        `json:"classificationId"`
	Week             pay.Week      `json:"week"`
	Breakdown        pay.Breakdown `json:"breakdown"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// SaveCalculation appends c to the history. ID and CreatedAt are filled in
// when empty.
func (s *Store) SaveCalculation(ctx context.Context, c Calculation) (Calculation, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	week, err := json.Marshal(c.Week)
	if err != nil {
		return c, fmt.Errorf("failed to encode week: %w", err)
	}
	breakdown, err := json.Marshal(c.Breakdown)
	if err != nil {
		return c, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculations (id, session_id, award_code, classification_id, week_json, breakdown_json, total_gross, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, nullString(c.SessionID), c.AwardCode, c.ClassificationID,
		string(week), string(breakdown), c.Breakdown.TotalGross.String(),
		c.CreatedAt.Format(time.RFC3339Nano),
	)
	return c, err
}

// ListCalculations returns the most recent calculations first. A limit of
// zero or less returns all of them.
func (s *Store) ListCalculations(ctx context.Context, limit int) ([]Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session_id, award_code, classification_id, week_json, breakdown_json, created_at
		FROM calculations ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Calculation
	for rows.Next() {
		var c Calculation
		var sessionID sql.NullString
		var week, breakdown, createdAt string
		if err := rows.Scan(&c.ID, &sessionID, &c.AwardCode, &c.ClassificationID, &week, &breakdown, &createdAt); err != nil {
			return nil, err
		}
		c.SessionID = sessionID.String
		if err := json.Unmarshal([]byte(week), &c.Week); err != nil {
			return nil, fmt.Errorf("failed to decode week of %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(breakdown), &c.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown of %s: %w", c.ID, err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"calculations", "awards"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
