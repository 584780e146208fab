package output

import (
	"io"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/ohler55/ojg/oj"
)

// WriteJSON writes {"header": [...], "rows": [[...], ...]}. Rows are arrays
// aligned with the header so column order survives.
func WriteJSON(w io.Writer, t *flatten.Table) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	rows := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		vals := r.Values(t.Header)
		row := make([]any, len(vals))
		for j, v := range vals {
			row[j] = v
		}
		rows[i] = row
	}

	doc := map[string]any{
		"header": header,
		"rows":   rows,
	}
	_, err := io.WriteString(w, oj.JSON(doc, &oj.Options{Indent: 2, Sort: true})+"\n")
	return err
}
