package ingest

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/agentic-research/treeflat/api"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const (
	resultsTag  = "results"
	recordTag   = "record"
	recordIDTag = "record_id"
)

// SQLiteParser reads a records database: a results table of (id, record)
// rows where record is a JSON document. Each row becomes a record child of
// a results root, led by its record_id, so every record is one row unit.
type SQLiteParser struct{}

// ParseFile implements Parser.
func (p *SQLiteParser) ParseFile(path string) (*api.Node, error) {
	root := &api.Node{Tag: resultsTag}
	err := StreamSQLiteRaw(path, func(id, raw string) error {
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
			return fmt.Errorf("parse record %s: %w", id, err)
		}
		rec := FromYAML(recordTag, &doc)
		if rec.IsLeaf() {
			// A scalar record still needs its value as a field.
			rec.Children = []*api.Node{api.Leaf("value", rec.Text)}
			rec.Text = ""
		}
		rec.Children = append([]*api.Node{api.Leaf(recordIDTag, id)}, rec.Children...)
		root.Children = append(root.Children, rec)
		return nil
	})
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return root, nil
}

// StreamSQLiteRaw iterates over all records in insertion order, yielding
// raw (id, json) strings without parsing.
func StreamSQLiteRaw(dbPath string, fn func(id, raw string) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.Query("SELECT id, record FROM results ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}
