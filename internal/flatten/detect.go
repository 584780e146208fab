package flatten

import "github.com/agentic-research/treeflat/api"

// Detect finds the row unit of a document: the first node, in pre-order,
// with a direct child tag that occurs at least twice. When a node has several
// repeated tags, the one whose first occurrence comes earliest wins.
//
// If nothing repeats, Detect returns (root, "") and the whole document is a
// single row.
func Detect(root *api.Node) (container *api.Node, rowTag string) {
	if root == nil {
		return nil, ""
	}
	stack := []*api.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, g := range n.GroupChildren() {
			if len(g.Members) >= 2 {
				return n, g.Tag
			}
		}

		// Reverse push so the leftmost child is visited next.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return root, ""
}
