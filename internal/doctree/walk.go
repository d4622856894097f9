package doctree

// Walk visits the forest depth-first in document order. fn receives the node
// and its ancestors (root first); returning false skips the node's children.
// The ancestors slice is reused between calls and must not be retained.
func Walk(roots []*Node, fn func(n *Node, ancestors []*Node) bool) {
	var path []*Node
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if !fn(n, path) {
				continue
			}
			if len(n.Children) > 0 {
				path = append(path, n)
				walk(n.Children)
				path = path[:len(path)-1]
			}
		}
	}
	walk(roots)
}

// Flatten returns all nodes in pre-order.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	Walk(roots, func(n *Node, _ []*Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Leaves returns only nodes without children.
func Leaves(roots []*Node) []*Node {
	var out []*Node
	Walk(roots, func(n *Node, _ []*Node) bool {
		if len(n.Children) == 0 {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Count returns the total number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	Walk(roots, func(*Node, []*Node) bool {
		total++
		return true
	})
	return total
}

// MaxDepth returns the deepest normalized depth, or -1 for an empty forest.
func MaxDepth(roots []*Node) int {
	deepest := -1
	Walk(roots, func(_ *Node, ancestors []*Node) bool {
		if len(ancestors) > deepest {
			deepest = len(ancestors)
		}
		return true
	})
	return deepest
}

// Paths flattens the forest into breadcrumb entries.
func Paths(roots []*Node) []Entry {
	var out []Entry
	Walk(roots, func(n *Node, ancestors []*Node) bool {
		bc := make([]string, 0, len(ancestors)+1)
		for _, a := range ancestors {
			bc = append(bc, a.Value)
		}
		bc = append(bc, n.Value)
		out = append(out, Entry{
			Breadcrumb: bc,
			Value:      n.Value,
			Depth:      len(ancestors),
			Line:       n.Span.Start,
		})
		return true
	})
	return out
}

// Select follows values from the roots downwards and returns the node the
// breadcrumb ends at. The first matching sibling wins at each level.
func Select(roots []*Node, breadcrumb ...string) *Node {
	if len(breadcrumb) == 0 {
		return nil
	}
	level := roots
	var cur *Node
	for _, v := range breadcrumb {
		cur = nil
		for _, n := range level {
			if n.Value == v {
				cur = n
				break
			}
		}
		if cur == nil {
			return nil
		}
		level = cur.Children
	}
	return cur
}

// Equal reports whether two forests have the same shape, values and kinds.
// Spans are ignored so that forests from different sources can be compared.
func Equal(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value || a[i].Kind != b[i].Kind || a[i].Depth != b[i].Depth {
			return false
		}
		if !Equal(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Value: n.Value,
		Kind:  n.Kind,
		Depth: n.Depth,
		Span:  n.Span,
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Clone creates a deep copy of the document.
func (t *DocTree) Clone() *DocTree {
	if t == nil {
		return nil
	}
	c := &DocTree{Title: t.Title}
	if t.Roots != nil {
		c.Roots = make([]*Node, len(t.Roots))
		for i, r := range t.Roots {
			c.Roots[i] = r.Clone()
		}
	}
	return c
}

// Rebase returns a copy of n as a root, with depths renumbered from 0.
func Rebase(n *Node) *Node {
	c := n.Clone()
	if c == nil {
		return nil
	}
	Walk([]*Node{c}, func(n *Node, ancestors []*Node) bool {
		n.Depth = len(ancestors)
		return true
	})
	return c
}
