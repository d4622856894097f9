package outline

import (
	"iter"

	"github.com/dgallion1/listtree/internal/doctree"
)

// BuildTree classifies input and builds its forest.
func BuildTree(input string, opts Options) []*doctree.Node {
	return Build(NewClassifier(opts).Lines(input))
}

// Build attaches each non-empty line under the nearest open ancestor whose
// source depth is shallower than the line's own. A line indented more than
// one level past that ancestor still lands exactly one level below it, and
// a first line that is indented becomes a root.
func Build(lines iter.Seq[Line]) []*doctree.Node {
	type frame struct {
		node  *doctree.Node
		depth int // Source depth of the line that opened this frame
	}

	var roots []*doctree.Node
	var stack []frame

	for line := range lines {
		if line.Text == "" {
			continue
		}

		node := &doctree.Node{
			Value: line.Text,
			Kind:  nodeKind(line.Kind),
			Span:  doctree.Span{Start: line.Index, End: line.Index},
		}

		// Close every frame at the same depth or deeper.
		for len(stack) > 0 && stack[len(stack)-1].depth >= line.Depth {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
			node.Depth = len(stack)
			for _, f := range stack {
				f.node.Span.End = line.Index
			}
		}

		stack = append(stack, frame{node: node, depth: line.Depth})
	}

	return roots
}

func nodeKind(k Kind) doctree.Kind {
	if k == KindItem {
		return doctree.KindItem
	}
	return doctree.KindText
}
