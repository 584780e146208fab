package flatten

import "github.com/agentic-research/treeflat/api"

// partKind classifies a tag group found under a node.
type partKind int

const (
	// scalarPart is a single leaf child: a fixed field.
	scalarPart partKind = iota
	// singlePart is a single non-leaf child: its fragments merge in.
	singlePart
	// repeatedPart is a tag seen two or more times: an expansion dimension.
	repeatedPart
)

func classify(g api.TagGroup) partKind {
	switch {
	case len(g.Members) >= 2:
		return repeatedPart
	case g.Members[0].IsLeaf():
		return scalarPart
	default:
		return singlePart
	}
}

// tagPath is a parent-linked path, materialized only when a field needs it.
type tagPath struct {
	tag    string
	parent *tagPath
	depth  int
}

func (p *tagPath) child(tag string) *tagPath {
	return &tagPath{tag: tag, parent: p, depth: p.depth + 1}
}

func (p *tagPath) slice() []string {
	out := make([]string, p.depth)
	for q := p; q != nil; q = q.parent {
		out[q.depth-1] = q.tag
	}
	return out
}

// frame is one non-leaf node scheduled for flattening.
type frame struct {
	node *api.Node
	path *tagPath
	// kids maps child position to its frame index, -1 for leaves.
	kids []int
}

// FlattenRowElement expands one occurrence of the row tag into row fragments.
// Every fragment holds the element's direct scalar fields, then the fields
// of each nested single, then one member from each nested repeating group.
// Repeating groups multiply: the result is their cartesian product, and
// always has at least one fragment.
//
// Paths start at elem's own tag. The traversal uses an explicit stack, so
// deep documents do not grow the goroutine stack.
func FlattenRowElement(elem *api.Node) [][]Field {
	if elem.IsLeaf() {
		return [][]Field{{{Path: []string{elem.Tag}, Value: elem.Text}}}
	}

	// Pre-order pass: parents always precede their children in frames.
	frames := []frame{}
	type pending struct {
		node   *api.Node
		path   *tagPath
		parent int
		pos    int
	}
	stack := []pending{{node: elem, path: &tagPath{tag: elem.Tag, depth: 1}, parent: -1}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := len(frames)
		kids := make([]int, len(p.node.Children))
		for i := range kids {
			kids[i] = -1
		}
		frames = append(frames, frame{node: p.node, path: p.path, kids: kids})
		if p.parent >= 0 {
			frames[p.parent].kids[p.pos] = idx
		}

		for i := len(p.node.Children) - 1; i >= 0; i-- {
			c := p.node.Children[i]
			if c.IsLeaf() {
				continue
			}
			stack = append(stack, pending{node: c, path: p.path.child(c.Tag), parent: idx, pos: i})
		}
	}

	// Reverse pass: children are resolved before the parent combines them.
	frags := make([][][]Field, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		frags[i] = combine(frames[i], frags)
		for _, k := range frames[i].kids {
			if k >= 0 {
				frags[k] = nil
			}
		}
	}
	return frags[0]
}

func combine(f frame, frags [][][]Field) [][]Field {
	var direct []Field
	var dims [][][]Field

	for _, g := range f.node.GroupChildren() {
		switch classify(g) {
		case scalarPart:
			direct = append(direct, Field{Path: f.path.child(g.Tag).slice(), Value: g.Members[0].Text})
		case singlePart:
			dims = append(dims, frags[f.kids[g.Positions[0]]])
		case repeatedPart:
			var options [][]Field
			var path []string
			for k, m := range g.Members {
				if m.IsLeaf() {
					if path == nil {
						path = f.path.child(g.Tag).slice()
					}
					options = append(options, []Field{{Path: path, Value: m.Text}})
					continue
				}
				options = append(options, frags[f.kids[g.Positions[k]]]...)
			}
			dims = append(dims, options)
		}
	}
	return product(direct, dims)
}

// product builds every combination of one option per dimension, each
// prefixed by base. An empty dimension is skipped rather than zeroing the
// result, so the base is always emitted.
func product(base []Field, dims [][][]Field) [][]Field {
	out := [][]Field{base}
	for _, options := range dims {
		if len(options) == 0 {
			continue
		}
		next := make([][]Field, 0, len(out)*len(options))
		for _, prefix := range out {
			for _, opt := range options {
				frag := make([]Field, 0, len(prefix)+len(opt))
				frag = append(frag, prefix...)
				frag = append(frag, opt...)
				next = append(next, frag)
			}
		}
		out = next
	}
	return out
}

// ScalarLeaves returns every scalar leaf under root in document order, with
// paths starting at root's own tag. It is the single row of a document in
// which nothing repeats.
func ScalarLeaves(root *api.Node) []Field {
	type pending struct {
		node *api.Node
		path *tagPath
	}
	var out []Field
	stack := []pending{{node: root, path: &tagPath{tag: root.Tag, depth: 1}}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.node.IsLeaf() {
			out = append(out, Field{Path: p.path.slice(), Value: p.node.Text})
			continue
		}
		for i := len(p.node.Children) - 1; i >= 0; i-- {
			c := p.node.Children[i]
			stack = append(stack, pending{node: c, path: p.path.child(c.Tag)})
		}
	}
	return out
}
