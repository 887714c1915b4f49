package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/codetran/internal"
)

// StatusPending is reported for requests that never recorded an outcome,
// e.g. because the process exited mid-stream.
const StatusPending = "pending"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		source_code TEXT NOT NULL,
		source_key TEXT NOT NULL,
		input_language TEXT NOT NULL,
		output_language TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_outcomes (
		request_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		translated_code TEXT NOT NULL,
		error TEXT,
		latency_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES translation_requests(id)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_lookup ON translation_requests(source_key, input_language, output_language);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRequest records an accepted translation request. A missing ID is
// filled in.
func (s *Store) SaveRequest(ctx context.Context, req internal.TranslationRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, source_code, source_key, input_language, output_language, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.SourceCode, normalizeCode(req.SourceCode), req.InputLanguage, req.OutputLanguage, req.Timestamp)
	return err
}

// SaveOutcome records the terminal state of a request. Saving twice for the
// same request keeps the last outcome.
func (s *Store) SaveOutcome(ctx context.Context, out internal.TranslationOutcome) error {
	var errMsg sql.NullString
	if out.Error != "" {
		errMsg = sql.NullString{String: out.Error, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_outcomes (request_id, status, translated_code, error, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		out.RequestID, out.Status, out.TranslatedCode, errMsg, out.Latency.Milliseconds(), time.Now())
	return err
}

// Entry is a request joined with its outcome, if any.
type Entry struct {
	ID             string
	SourceCode     string
	InputLanguage  string
	OutputLanguage string
	Status         string
	TranslatedCode string
	Error          string
	Latency        time.Duration
	CreatedAt      time.Time
}

// HistoryStats summarises recorded attempts.
type HistoryStats struct {
	TotalRequests int
	Succeeded     int
	Failed        int
	Pending       int
	AvgLatency    time.Duration
}

const entryColumns = `r.id, r.source_code, r.input_language, r.output_language, r.created_at,
	o.status, o.translated_code, o.error, o.latency_ms`

const entryFrom = `FROM translation_requests r LEFT JOIN translation_outcomes o ON o.request_id = r.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e          Entry
		status     sql.NullString
		translated sql.NullString
		errMsg     sql.NullString
		latencyMs  sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.SourceCode, &e.InputLanguage, &e.OutputLanguage, &e.CreatedAt,
		&status, &translated, &errMsg, &latencyMs); err != nil {
		return Entry{}, err
	}
	e.Status = StatusPending
	if status.Valid {
		e.Status = status.String
	}
	e.TranslatedCode = translated.String
	e.Error = errMsg.String
	e.Latency = time.Duration(latencyMs.Int64) * time.Millisecond
	return e, nil
}

// ListHistory returns recorded attempts, newest first. limit <= 0 returns
// everything.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` ` + entryFrom + ` ORDER BY r.created_at DESC, r.rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// GetEntry returns a single attempt by request ID.
func (s *Store) GetEntry(ctx context.Context, id string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` `+entryFrom+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindBySource returns the most recent successful translation of the same
// source for a language pair. Whitespace at the ends and Unicode
// normalization form are ignored when comparing sources.
func (s *Store) FindBySource(ctx context.Context, sourceCode, inputLanguage, outputLanguage string) (*Entry, bool, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` `+entryFrom+`
		 WHERE r.source_key = ? AND r.input_language = ? AND r.output_language = ? AND o.status = 'succeeded'
		 ORDER BY r.created_at DESC, r.rowid DESC LIMIT 1`,
		normalizeCode(sourceCode), inputLanguage, outputLanguage))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

// Stats returns summary statistics for the history.
func (s *Store) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}
	var avgMs float64

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN o.status = 'succeeded' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN o.status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN o.request_id IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(o.latency_ms), 0)
		`+entryFrom).Scan(
		&stats.TotalRequests,
		&stats.Succeeded,
		&stats.Failed,
		&stats.Pending,
		&avgMs,
	)
	if err != nil {
		return nil, err
	}
	stats.AvgLatency = time.Duration(avgMs) * time.Millisecond
	return stats, nil
}

// DeleteEntry permanently removes an attempt and its outcome.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM translation_outcomes WHERE request_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM translation_requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history entry not found: %s", id)
	}
	return tx.Commit()
}

// ClearHistory removes every recorded attempt and returns how many requests
// were deleted.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM translation_outcomes`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM translation_requests`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeCode trims surrounding whitespace and applies Unicode NFC
// normalization for source comparison.
func normalizeCode(code string) string {
	return norm.NFC.String(strings.TrimSpace(code))
}
