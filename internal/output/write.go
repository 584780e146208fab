package output

import (
	"fmt"
	"os"

	"github.com/agentic-research/treeflat/internal/flatten"
)

// Options bundle the per-format settings for Write.
type Options struct {
	Format Format
	CSV    CSVOptions
	// Table is the SQLite table name.
	Table string
}

// Write renders t to path in the configured format, replacing any
// existing file. sources is recorded by formats that keep lineage.
func Write(path string, t *flatten.Table, sources []string, opts Options) error {
	if opts.Format == FormatSQLite {
		_ = os.Remove(path) // Overwrite
		w, err := NewSQLiteWriter(path)
		if err != nil {
			return err
		}
		if _, err := w.WriteTable(opts.Table, t, sources); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	switch opts.Format {
	case FormatJSON:
		err = WriteJSON(f, t)
	default:
		err = WriteCSV(f, t, opts.CSV)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
