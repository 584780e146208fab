package output

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table rows are written to when none is configured.
const DefaultTable = "rows"

// SQLiteWriter stores tables in a SQLite database, one TEXT column per
// header name. Every WriteTable call is one transaction and leaves a row
// in the conversions table.
type SQLiteWriter struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteWriter opens dbPath and ensures the bookkeeping schema exists.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One connection: ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	// Performance tuning for bulk insert
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		table_name TEXT NOT NULL,
		sources TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteWriter{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// WriteTable appends t to table, adding any columns the table lacks, and
// returns the conversion id.
func (w *SQLiteWriter) WriteTable(table string, t *flatten.Table, sources []string) (string, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := checkFolded(t.Header); err != nil {
		return "", err
	}

	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if len(t.Header) > 0 {
		if err := ensureColumns(tx, table, t.Header); err != nil {
			return "", err
		}
		if err := insertRows(tx, table, t); err != nil {
			return "", err
		}
	}

	id := ulid.MustNew(ulid.Now(), w.entropy).String()
	_, err = tx.Exec(
		`INSERT INTO conversions (id, table_name, sources, row_count, column_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, table, strings.Join(sources, "\n"), len(t.Rows), len(t.Header), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("record conversion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func ensureColumns(tx *sql.Tx, table string, header []string) error {
	existing, err := tableColumns(tx, table)
	if err != nil {
		return err
	}

	if existing == nil {
		defs := make([]string, len(header))
		for i, h := range header {
			defs[i] = quoteIdent(h) + " TEXT"
		}
		stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		return nil
	}

	for _, h := range header {
		if existing[strings.ToLower(h)] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", quoteIdent(table), quoteIdent(h))
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("add column %s: %w", h, err)
		}
		log.Printf("SQLiteWriter: added column %q to %s", h, table)
	}
	return nil
}

// tableColumns returns the lower-cased column names of table, or nil if it
// does not exist. SQLite identifiers are case-insensitive.
func tableColumns(tx *sql.Tx, table string) (map[string]bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols map[string]bool
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		if cols == nil {
			cols = make(map[string]bool)
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

func insertRows(tx *sql.Tx, table string, t *flatten.Table) error {
	cols := make([]string, len(t.Header))
	marks := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = quoteIdent(h)
		marks[i] = "?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(t.Header))
	for i, r := range t.Rows {
		for j, h := range t.Header {
			if v, ok := r.Get(h); ok {
				args[j] = v
			} else {
				args[j] = nil
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the database.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}

// checkFolded rejects headers SQLite would see as duplicate columns.
func checkFolded(header []string) error {
	seen := make(map[string]string, len(header))
	for _, h := range header {
		k := strings.ToLower(h)
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("columns %q and %q differ only in case", prev, h)
		}
		seen[k] = h
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
