package api

// Node is one element of a parsed document tree.
// Parsers build it once; the converter only ever reads it.
type Node struct {
	// Tag is the element name (XML local name, or mapping key for YAML/JSON).
	Tag string `json:"tag"`
	// Text is the scalar value. It is only meaningful for leaves.
	Text string `json:"text,omitempty"`
	// Children in document order.
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether n is a scalar leaf (no children).
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Leaf is a convenience constructor for a scalar node.
func Leaf(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// Elem is a convenience constructor for a node with children.
func Elem(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// TagGroup is the set of direct children sharing one tag.
type TagGroup struct {
	Tag     string
	Members []*Node
	// Positions holds each member's index in the parent's Children.
	Positions []int
}

// GroupChildren groups the direct children of n by tag. Groups are ordered
// by the position of each tag's first occurrence; members keep document order.
func (n *Node) GroupChildren() []TagGroup {
	if len(n.Children) == 0 {
		return nil
	}
	index := make(map[string]int, len(n.Children))
	var groups []TagGroup
	for pos, c := range n.Children {
		i, ok := index[c.Tag]
		if !ok {
			i = len(groups)
			index[c.Tag] = i
			groups = append(groups, TagGroup{Tag: c.Tag})
		}
		groups[i].Members = append(groups[i].Members, c)
		groups[i].Positions = append(groups[i].Positions, pos)
	}
	return groups
}
