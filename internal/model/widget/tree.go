package widget

import (
	"fmt"
	"strconv"
)

// Node is one widget in a flattened Tree. Children are indices into
// Tree.Nodes in source order.
type Node struct {
	Widget   Widget
	Children []int
	Parent   int
	Depth    int
	Path     string
}

// Tree is an arena of widget nodes. Nodes[0] is the root.
type Tree struct {
	Nodes []Node
}

// Root returns the root node.
func (t *Tree) Root() Node { return t.Nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Children returns the direct children of w: the members of a container or
// the content of a popup. Leaves have none.
func Children(w Widget) []Widget {
	switch v := w.(type) {
	case *Container:
		return v.Widgets
	case *Popup:
		return []Widget{v.Content}
	default:
		return nil
	}
}

// Flatten walks w breadth first into a Tree. It fails with ErrCycle when a
// widget is its own ancestor and with ErrTooDeep when nesting exceeds
// maxDepth. A maxDepth below 1 uses DefaultMaxDepth. Shared subtrees that
// are not cyclic are copied into separate nodes.
func Flatten(w Widget, maxDepth int) (*Tree, error) {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	t := &Tree{Nodes: []Node{{Widget: w, Parent: -1, Depth: 1, Path: "0"}}}
	for i := 0; i < len(t.Nodes); i++ {
		parent := t.Nodes[i]
		kids := Children(parent.Widget)
		if len(kids) == 0 {
			continue
		}
		if parent.Depth+1 > maxDepth {
			return nil, fmt.Errorf("%w: %d levels at %s", ErrTooDeep, maxDepth, parent.Path)
		}

		children := make([]int, 0, len(kids))
		for ord, kid := range kids {
			if kid != nil && t.onPath(i, kid) {
				return nil, fmt.Errorf("%w at %s", ErrCycle, parent.Path)
			}
			idx := len(t.Nodes)
			t.Nodes = append(t.Nodes, Node{
				Widget: kid,
				Parent: i,
				Depth:  parent.Depth + 1,
				Path:   parent.Path + "." + strconv.Itoa(ord),
			})
			children = append(children, idx)
		}
		t.Nodes[i].Children = children
	}
	return t, nil
}

// onPath reports whether w appears on the ancestor chain ending at idx.
func (t *Tree) onPath(idx int, w Widget) bool {
	for idx >= 0 {
		if t.Nodes[idx].Widget == w {
			return true
		}
		idx = t.Nodes[idx].Parent
	}
	return false
}
