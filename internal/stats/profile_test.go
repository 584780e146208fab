package stats

import (
	"testing"

	"github.com/agentic-research/treeflat/internal/flatten"
	"github.com/stretchr/testify/assert"
)

func row(kv ...string) *flatten.Row {
	r := flatten.NewRow()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func TestProfile(t *testing.T) {
	table := &flatten.Table{
		Header: []string{"id", "sku", "note"},
		Rows: []*flatten.Row{
			row("id", "1", "sku", "a", "note", ""),
			row("id", "2", "sku", "b"),
			row("id", "3", "note", "n"),
		},
	}
	p := Build(table)

	assert.Equal(t, 3, p.Rows())
	assert.Equal(t, uint64(3), p.Fill("id"))
	assert.Equal(t, uint64(2), p.Fill("sku"))
	assert.Equal(t, uint64(1), p.Fill("note"), "empty string counts as blank")
	assert.Equal(t, uint64(0), p.Fill("unknown"))

	assert.Equal(t, []string{"sku", "note"}, p.Sparse())
	assert.Equal(t, uint64(2), p.CoFill("id", "sku"))
	assert.Equal(t, uint64(0), p.CoFill("sku", "note"))
	assert.Equal(t, uint64(0), p.CoFill("sku", "missing"))
}

func TestProfile_Empty(t *testing.T) {
	p := Build(&flatten.Table{Header: []string{"a"}})
	assert.Equal(t, 0, p.Rows())
	assert.Empty(t, p.Sparse())
}
