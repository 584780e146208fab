package flatten

import "github.com/agentic-research/treeflat/api"

// Options tune a conversion session.
type Options struct {
	// SkipEmpty drops fields whose value is the empty string, so their
	// columns only appear once some row carries a value.
	SkipEmpty bool
}

// Session carries the column registry and header across conversions.
// Use one session per output table: a fresh one per file, or one shared
// across a merged batch. A Session is not safe for concurrent use.
type Session struct {
	Namer  *Namer
	Header *Header
	opts   Options
}

// NewSession returns a session with an empty registry and header.
func NewSession(opts Options) *Session {
	return &Session{
		Namer:  NewNamer(),
		Header: NewHeader(),
		opts:   opts,
	}
}

// Convert flattens one document into rows, registering new columns as they
// are discovered.
func (s *Session) Convert(root *api.Node) []*Row {
	if root == nil {
		return nil
	}

	container, rowTag := Detect(root)
	if rowTag == "" {
		return []*Row{s.row(nil, ScalarLeaves(root))}
	}

	ancestors := CollectAncestorFields(container, rowTag)
	var rows []*Row
	for _, elem := range container.Children {
		if elem.Tag != rowTag {
			continue
		}
		for _, frag := range FlattenRowElement(elem) {
			rows = append(rows, s.row(ancestors, frag))
		}
	}
	return rows
}

// ConvertTable converts root and pairs the rows with the current header.
func (s *Session) ConvertTable(root *api.Node) *Table {
	rows := s.Convert(root)
	return &Table{Header: s.Header.Names(), Rows: rows}
}

func (s *Session) row(ancestors, frag []Field) *Row {
	r := NewRow()
	s.assign(r, ancestors)
	s.assign(r, frag)
	return r
}

func (s *Session) assign(r *Row, fields []Field) {
	for _, f := range fields {
		if s.opts.SkipEmpty && f.Value == "" {
			continue
		}
		name := s.Namer.NameFor(f.Path)
		s.Header.Register(name)
		r.Set(name, f.Value)
	}
}
