package flatten

import (
	"testing"

	"github.com/agentic-research/treeflat/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ScenarioBasic(t *testing.T) {
	s := NewSession(Options{})
	table := s.ConvertTable(scenarioDoc(false))

	assert.Equal(t, []string{"fa1", "fa2", "fa3", "fb1", "fb2", "fb3"}, table.Header)
	require.Len(t, table.Rows, 2)
	for _, r := range table.Rows {
		assert.Equal(t, "va1", get(t, r, "fa1"))
		assert.Equal(t, "va2", get(t, r, "fa2"))
		assert.Equal(t, "va3", get(t, r, "fa3"))
	}
	assert.Equal(t, "vb11", get(t, table.Rows[0], "fb1"))
	assert.Equal(t, "vb23", get(t, table.Rows[1], "fb3"))
}

func TestSession_ScenarioNestedSingle(t *testing.T) {
	s := NewSession(Options{})
	table := s.ConvertTable(scenarioDoc(true))

	assert.Equal(t, []string{"fa1", "fa2", "fa3", "fb1", "fb2", "fb3", "fc1", "fc2"}, table.Header)
	require.Len(t, table.Rows, 2)

	_, ok := table.Rows[0].Get("fc1")
	assert.False(t, ok)
	assert.Equal(t, []string{"", ""}, table.Rows[0].Values([]string{"fc1", "fc2"}))
	assert.Equal(t, []string{"vc1", "vc2"}, table.Rows[1].Values([]string{"fc1", "fc2"}))
}

func TestSession_ScenarioNoRepetition(t *testing.T) {
	doc := elem("doc", leaf("x", "1"), leaf("y", "2"), elem("meta", leaf("z", "3"), leaf("w", "4")))
	s := NewSession(Options{})
	table := s.ConvertTable(doc)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"x", "y", "z", "w"}, table.Header)
	assert.Equal(t, []string{"1", "2", "3", "4"}, table.Rows[0].Values(table.Header))
}

func TestSession_NoRepetitionDocumentOrder(t *testing.T) {
	doc := elem("doc",
		elem("meta", leaf("z", "3"), elem("inner", leaf("v", "5"))),
		leaf("x", "1"),
		elem("tail", leaf("y", "2")),
	)
	table := NewSession(Options{}).ConvertTable(doc)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"z", "v", "x", "y"}, table.Header)
	assert.Equal(t, []string{"3", "5", "1", "2"}, table.Rows[0].Values(table.Header))
}

func TestScalarLeaves(t *testing.T) {
	fields := ScalarLeaves(elem("doc", elem("meta", leaf("z", "3")), leaf("x", "1")))
	assert.Equal(t, []Field{
		{Path: []string{"doc", "meta", "z"}, Value: "3"},
		{Path: []string{"doc", "x"}, Value: "1"},
	}, fields)

	assert.Equal(t, []Field{{Path: []string{"solo"}, Value: "v"}}, ScalarLeaves(leaf("solo", "v")))
}

func TestSession_ScenarioMerge(t *testing.T) {
	fileA := elem("r",
		elem("item", leaf("x", "ax1"), leaf("y", "ay1")),
		elem("item", leaf("x", "ax2"), leaf("y", "ay2")),
	)
	fileB := elem("r",
		elem("item", leaf("y", "by1"), leaf("z", "bz1")),
		elem("item", leaf("y", "by2"), leaf("z", "bz2")),
	)

	s := NewSession(Options{})
	rowsA := s.Convert(fileA)
	headerA := s.Header.Names()
	rowsB := s.Convert(fileB)

	assert.Equal(t, []string{"x", "y"}, headerA)
	merged := s.Header.Names()
	assert.Equal(t, []string{"x", "y", "z"}, merged)

	for _, r := range rowsA {
		assert.Equal(t, "", r.Values(merged)[2])
	}
	for _, r := range rowsB {
		assert.Equal(t, "", r.Values(merged)[0])
	}

	// Per-file header of B is an order-compatible subset of the union.
	own := NewSession(Options{}).ConvertTable(fileB).Header
	assert.Equal(t, []string{"y", "z"}, own)
	assert.Subset(t, merged, own)
}

func TestSession_ScenarioSelect(t *testing.T) {
	table := NewSession(Options{}).ConvertTable(scenarioDoc(false))
	selected, missing := Select(table.Header, []string{"fb1", "nonexistent", "fa1"})
	assert.Equal(t, []string{"fb1", "fa1"}, selected)
	assert.Equal(t, []string{"nonexistent"}, missing)

	projected := table.Project(selected)
	assert.Equal(t, []string{"vb11", "va1"}, projected.Rows[0].Values(projected.Header))
}

func TestSession_RowCounts(t *testing.T) {
	doc := elem("orders",
		leaf("batch", "7"),
		elem("order",
			leaf("id", "o1"),
			elem("line", leaf("sku", "s1")),
			elem("line", leaf("sku", "s2")),
			elem("note", leaf("text", "n1")),
			elem("note", leaf("text", "n2")),
			elem("note", leaf("text", "n3")),
		),
		elem("order", leaf("id", "o2")),
		elem("order",
			leaf("id", "o3"),
			elem("line", leaf("sku", "s3")),
			elem("line", leaf("sku", "s4")),
		),
	)

	rows := NewSession(Options{}).Convert(doc)
	require.Len(t, rows, 6+1+2)

	counts := map[string]int{}
	for _, r := range rows {
		counts[get(t, r, "id")]++
		assert.Equal(t, "7", get(t, r, "batch"), "ancestor fields repeat in every row")
	}
	assert.Equal(t, map[string]int{"o1": 6, "o2": 1, "o3": 2}, counts)

	// o2 has neither dimension; its nested columns stay blank.
	o2 := rows[6]
	assert.Equal(t, "o2", get(t, o2, "id"))
	_, ok := o2.Get("sku")
	assert.False(t, ok)
}

func TestSession_HeaderDeterministic(t *testing.T) {
	build := func() []string {
		return NewSession(Options{}).ConvertTable(scenarioDoc(true)).Header
	}
	assert.Equal(t, build(), build())
}

func TestSession_CollidingNames(t *testing.T) {
	doc := elem("a",
		leaf("id", "container"),
		elem("b", leaf("id", "b1"), elem("c", leaf("id", "c1"))),
		elem("b", leaf("id", "b2")),
	)
	table := NewSession(Options{}).ConvertTable(doc)
	assert.Equal(t, []string{"id", "b.id", "b.c.id"}, table.Header)
	assert.Equal(t, []string{"container", "b1", "c1"}, table.Rows[0].Values(table.Header))
	assert.Equal(t, []string{"container", "b2", ""}, table.Rows[1].Values(table.Header))
}

func TestSession_SkipEmpty(t *testing.T) {
	doc := elem("a",
		leaf("blank", ""),
		elem("b", leaf("x", ""), leaf("y", "1")),
		elem("b", leaf("x", "2"), leaf("y", "3")),
	)

	keep := NewSession(Options{}).ConvertTable(doc)
	assert.Equal(t, []string{"blank", "x", "y"}, keep.Header)

	skip := NewSession(Options{SkipEmpty: true}).ConvertTable(doc)
	assert.Equal(t, []string{"y", "x"}, skip.Header)
}

func TestSession_NilAndLeafRoot(t *testing.T) {
	s := NewSession(Options{})
	assert.Nil(t, s.Convert(nil))

	rows := s.Convert(api.Leaf("only", "v"))
	require.Len(t, rows, 1)
	assert.Equal(t, "v", get(t, rows[0], "only"))
}
