package flatten

import "github.com/agentic-research/treeflat/api"

// CollectAncestorFields returns the scalar leaf children of container, other
// than rowTag, in document order. Their path is just the leaf tag.
//
// Non-leaf children that are not the row group are ignored.
func CollectAncestorFields(container *api.Node, rowTag string) []Field {
	var fields []Field
	for _, c := range container.Children {
		if c.Tag == rowTag || !c.IsLeaf() {
			continue
		}
		fields = append(fields, Field{Path: []string{c.Tag}, Value: c.Text})
	}
	return fields
}
