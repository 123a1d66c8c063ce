package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDGenerator
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a scan history database with WAL
// mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", internalerr.ErrStoreUnavailable, path, err)
	}
	// One writer at a time; pragmas below apply to the single connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrStoreUnavailable, pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %w", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{
		db:  db,
		ids: store.NewIDGenerator(),
		now: time.Now,
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	preference TEXT NOT NULL,
	verdict TEXT NOT NULL,
	transcript TEXT NOT NULL,
	result_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS scans_created_at ON scans(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveScan inserts a scan. An existing ID is reported as ErrDuplicate.
func (s *sqliteStore) SaveScan(ctx context.Context, scan store.Scan) (store.Scan, error) {
	scan = s.ids.Prepare(scan, s.now())

	resultJSON, err := store.EncodeResult(scan.Result)
	if err != nil {
		return store.Scan{}, fmt.Errorf("encode result: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO scans (id, created_at, preference, verdict, transcript, result_json)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;
`, scan.ID, scan.CreatedAt.UTC().Format(timeLayout), string(scan.Preference), string(scan.Verdict), scan.Transcript, resultJSON)
	if err != nil {
		return store.Scan{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Scan{}, err
	}
	if n == 0 {
		return store.Scan{}, fmt.Errorf("%w: scan %s", internalerr.ErrDuplicate, scan.ID)
	}
	return scan, nil
}

// GetScan loads one scan by ID.
func (s *sqliteStore) GetScan(ctx context.Context, id string) (store.Scan, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, preference, verdict, transcript, result_json
FROM scans
WHERE id = ?;
`, id)
	scan, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Scan{}, fmt.Errorf("%w: scan %s", internalerr.ErrNotFound, id)
	}
	return scan, err
}

// ListScans returns scans newest first.
func (s *sqliteStore) ListScans(ctx context.Context, opts store.ListOptions) ([]store.Scan, error) {
	var (
		where []string
		args  []any
	)
	if opts.Preference != "" {
		where = append(where, "preference = ?")
		args = append(args, string(opts.Preference))
	}
	if opts.Verdict != "" {
		where = append(where, "verdict = ?")
		args = append(args, string(opts.Verdict))
	}

	query := "SELECT id, created_at, preference, verdict, transcript, result_json FROM scans"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, opts.EffectiveLimit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := []store.Scan{}
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (store.Scan, error) {
	var (
		scan                store.Scan
		createdAt, pref     string
		verdict, resultJSON string
	)
	if err := row.Scan(&scan.ID, &createdAt, &pref, &verdict, &scan.Transcript, &resultJSON); err != nil {
		return store.Scan{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.Scan{}, fmt.Errorf("scan %s: created_at: %w", scan.ID, err)
	}
	scan.CreatedAt = t
	scan.Preference = diet.Preference(pref)
	scan.Verdict = classify.Verdict(verdict)

	scan.Result, err = store.DecodeResult(resultJSON)
	if err != nil {
		return store.Scan{}, fmt.Errorf("scan %s: result: %w", scan.ID, err)
	}
	return scan, nil
}
