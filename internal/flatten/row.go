package flatten

// Field is one scalar value found in a subtree, keyed by the tag path
// leading to it. Repetition indexes are not part of the path.
type Field struct {
	Path  []string
	Value string
}

// Row is an ordered mapping from column name to value.
type Row struct {
	names  []string
	values map[string]string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set assigns value to name. A name keeps the position of its first Set.
func (r *Row) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the value for name and whether it was assigned.
func (r *Row) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the assigned column names in assignment order.
func (r *Row) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of assigned columns.
func (r *Row) Len() int {
	return len(r.names)
}

// Values projects the row onto columns. Unassigned columns are blank.
func (r *Row) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.values[c]
	}
	return out
}

// Table is a header plus the rows produced against it.
type Table struct {
	Header []string
	Rows   []*Row
}

// Project returns a copy of t restricted to columns, in that order.
// Rows are shared; only the header changes.
func (t *Table) Project(columns []string) *Table {
	header := make([]string, len(columns))
	copy(header, columns)
	return &Table{Header: header, Rows: t.Rows}
}
