// Package stats profiles how densely each column of a table is filled.
package stats

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/treeflat/internal/flatten"
)

// Profile is a column-major incidence table: for each column, a bitmap of
// the row indexes where it holds a non-blank value.
type Profile struct {
	rows    int
	columns []string
	fill    map[string]*roaring.Bitmap
}

// Build profiles t.
func Build(t *flatten.Table) *Profile {
	p := &Profile{
		rows:    len(t.Rows),
		columns: append([]string(nil), t.Header...),
		fill:    make(map[string]*roaring.Bitmap, len(t.Header)),
	}
	for _, c := range t.Header {
		p.fill[c] = roaring.New()
	}
	for i, r := range t.Rows {
		for _, c := range t.Header {
			if v, ok := r.Get(c); ok && v != "" {
				p.fill[c].Add(uint32(i))
			}
		}
	}
	return p
}

// Rows returns the number of profiled rows.
func (p *Profile) Rows() int {
	return p.rows
}

// Fill returns how many rows carry a value for column.
func (p *Profile) Fill(column string) uint64 {
	bm, ok := p.fill[column]
	if !ok {
		return 0
	}
	return bm.GetCardinality()
}

// Sparse returns, in header order, the columns blank in at least one row.
func (p *Profile) Sparse() []string {
	var out []string
	for _, c := range p.columns {
		if p.Fill(c) < uint64(p.rows) {
			out = append(out, c)
		}
	}
	return out
}

// CoFill returns how many rows carry values for both a and b.
func (p *Profile) CoFill(a, b string) uint64 {
	ba, ok := p.fill[a]
	if !ok {
		return 0
	}
	bb, ok := p.fill[b]
	if !ok {
		return 0
	}
	return ba.AndCardinality(bb)
}
