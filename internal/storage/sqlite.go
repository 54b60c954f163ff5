// Package storage caches the last good bibliography in SQLite so the site
// can still render publications when the upstream source is unavailable.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsite/folio/internal/bibtex"
	_ "modernc.org/sqlite"
)

// MaxSnapshots is how many snapshots SaveSnapshot retains.
const MaxSnapshots = 5

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Snapshot is a stored copy of a fetched bibliography.
type Snapshot struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Body      string    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
	Count     int       `json:"count"`
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			body TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			entry_count INTEGER NOT NULL
		);

		-- Publications of the latest snapshot, in display order
		CREATE TABLE IF NOT EXISTS publications (
			position INTEGER PRIMARY KEY,
			id TEXT,
			entry_type TEXT,
			year INTEGER NOT NULL,
			title TEXT,
			author TEXT,
			fields_json TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			position UNINDEXED,
			id,
			title,
			author
		);
	`

	_, err := db.Exec(schema)
	return err
}

// SaveSnapshot stores body as the latest snapshot, keeping at most
// MaxSnapshots, and replaces the cached publications with records, whose
// slice order becomes the display order.
func (d *DB) SaveSnapshot(source, body string, records []*bibtex.Record, fetchedAt time.Time) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(
		`INSERT INTO snapshots (source, body, fetched_at, entry_count) VALUES (?, ?, ?, ?)`,
		source, body, fetchedAt.Unix(), len(records),
	); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	if _, err = pruneSnapshots(tx, MaxSnapshots); err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM publications"); err != nil {
		return fmt.Errorf("clearing publications table: %w", err)
	}
	if _, err = tx.Exec("DELETE FROM publications_fts"); err != nil {
		return fmt.Errorf("clearing publications_fts table: %w", err)
	}

	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (position, id, entry_type, year, title, author, fields_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO publications_fts (position, id, title, author) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, rec := range records {
		fieldsJSON, jerr := json.Marshal(rec.Fields())
		if jerr != nil {
			err = fmt.Errorf("marshaling fields for entry %d: %w", i, jerr)
			return err
		}

		if _, err = pubStmt.Exec(
			i, nullableString(rec.ID()), nullableString(rec.EntryType()), rec.Year(),
			nullableString(rec.Title()), nullableString(rec.Get("author")), string(fieldsJSON),
		); err != nil {
			return fmt.Errorf("inserting publication %d: %w", i, err)
		}

		if _, err = ftsStmt.Exec(i, rec.ID(), rec.Title(), rec.Get("author")); err != nil {
			return fmt.Errorf("inserting fts for publication %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none exists.
func (d *DB) LatestSnapshot() (*Snapshot, error) {
	row := d.db.QueryRow(`
		SELECT id, source, body, fetched_at, entry_count
		FROM snapshots ORDER BY id DESC LIMIT 1
	`)

	var s Snapshot
	var fetchedAt int64
	err := row.Scan(&s.ID, &s.Source, &s.Body, &fetchedAt, &s.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest snapshot: %w", err)
	}
	s.FetchedAt = time.Unix(fetchedAt, 0)
	return &s, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (d *DB) PruneSnapshots(keep int) (int64, error) {
	return pruneSnapshots(d.db, keep)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func pruneSnapshots(db execer, keep int) (int64, error) {
	res, err := db.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

// ListPublications returns the cached publications in display order.
func (d *DB) ListPublications() ([]*bibtex.Record, error) {
	rows, err := d.db.Query(`SELECT fields_json FROM publications ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search performs a full-text search over id, title and author.
func (d *DB) Search(query string, limit int) ([]*bibtex.Record, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return []*bibtex.Record{}, nil
	}

	rows, err := d.db.Query(`
		SELECT fields_json
		FROM publications
		WHERE position IN (SELECT position FROM publications_fts WHERE publications_fts MATCH ?)
		ORDER BY position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the number of cached publications.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

func scanRecords(rows *sql.Rows) ([]*bibtex.Record, error) {
	records := []*bibtex.Record{}
	for rows.Next() {
		var fieldsJSON string
		if err := rows.Scan(&fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		var fields []bibtex.Field
		if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
			return nil, fmt.Errorf("decoding publication fields: %w", err)
		}
		records = append(records, bibtex.RecordFromFields(fields))
	}
	return records, rows.Err()
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~,.") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
