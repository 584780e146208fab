package flatten

// Header is an append-only ordered set of column names.
type Header struct {
	names []string
	seen  map[string]struct{}
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{seen: make(map[string]struct{})}
}

// Register appends names not seen before, in the order given.
func (h *Header) Register(names ...string) {
	for _, name := range names {
		if _, ok := h.seen[name]; ok {
			continue
		}
		h.seen[name] = struct{}{}
		h.names = append(h.names, name)
	}
}

// Contains reports whether name has been registered.
func (h *Header) Contains(name string) bool {
	_, ok := h.seen[name]
	return ok
}

// Names returns a snapshot of the header.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}
