package flatten

import (
	"fmt"
	"strings"
)

// pathSep joins path elements into memo keys. Tags never contain NUL.
const pathSep = "\x00"

// Namer assigns column names to field paths for the lifetime of a run.
//
// A path first tries its leaf tag. If another path holds that name it falls
// back to the dotted path, and if that is taken too, to the dotted path with
// a _2, _3, ... suffix. Earlier claims are never renamed, and the same path
// always gets the same name.
type Namer struct {
	byPath  map[string]string   // path key → name
	claimed map[string][]string // name → path
}

// NewNamer returns an empty registry.
func NewNamer() *Namer {
	return &Namer{
		byPath:  make(map[string]string),
		claimed: make(map[string][]string),
	}
}

// NameFor returns the column name for path, assigning one on first use.
func (n *Namer) NameFor(path []string) string {
	key := strings.Join(path, pathSep)
	if name, ok := n.byPath[key]; ok {
		return name
	}

	name := path[len(path)-1]
	if n.taken(name) {
		name = strings.Join(path, ".")
		if n.taken(name) {
			base := name
			for i := 2; n.taken(name); i++ {
				name = fmt.Sprintf("%s_%d", base, i)
			}
		}
	}

	owner := make([]string, len(path))
	copy(owner, path)
	n.claimed[name] = owner
	n.byPath[key] = name
	return name
}

// PathOf returns the path that owns name.
func (n *Namer) PathOf(name string) ([]string, bool) {
	p, ok := n.claimed[name]
	return p, ok
}

// Len returns the number of named paths.
func (n *Namer) Len() int {
	return len(n.byPath)
}

func (n *Namer) taken(name string) bool {
	_, ok := n.claimed[name]
	return ok
}
