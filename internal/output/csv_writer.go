package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/agentic-research/treeflat/internal/textenc"
)

// CSVOptions control CSV text rendering.
type CSVOptions struct {
	Delimiter rune   // default ','
	Encoding  string // default utf-8
}

// WriteCSV writes the header row followed by every row projected onto it.
func WriteCSV(w io.Writer, t *flatten.Table, opts CSVOptions) error {
	ew, err := textenc.NewWriter(w, opts.Encoding)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(ew)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Rows {
		if err := cw.Write(r.Values(t.Header)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return ew.Close()
}
