package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
)

// writeText emits the canonical outline: one line per node, indented by its
// normalized depth, items prefixed with the marker. Building it again with
// the same options gives an equal forest.
func writeText(w io.Writer, roots []*doctree.Node, opts outline.Options) error {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = outline.DefaultIndentWidth
	}
	if opts.Marker == "" {
		opts.Marker = outline.DefaultMarker
	}

	bw := bufio.NewWriter(w)
	doctree.Walk(roots, func(n *doctree.Node, ancestors []*doctree.Node) bool {
		bw.WriteString(strings.Repeat(" ", len(ancestors)*opts.IndentWidth))
		if n.Kind != doctree.KindText {
			bw.WriteString(opts.Marker)
			bw.WriteByte(' ')
		}
		bw.WriteString(n.Value)
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

// painter decorates the parts of a tree view.
type painter struct {
	title  func(string) string
	branch func(string) string
	node   func(n *doctree.Node) string
}

var plainPainter = painter{
	title:  func(s string) string { return s },
	branch: func(s string) string { return s },
	node:   func(n *doctree.Node) string { return n.Value },
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	textStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))

	depthStyles = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	}
)

// styledPainter colors items by depth, cycling through depthStyles.
var styledPainter = painter{
	title:  func(s string) string { return titleStyle.Render(s) },
	branch: func(s string) string { return branchStyle.Render(s) },
	node: func(n *doctree.Node) string {
		if n.Kind == doctree.KindText {
			return textStyle.Render(n.Value)
		}
		return depthStyles[n.Depth%len(depthStyles)].Render(n.Value)
	},
}

// writeTree draws the forest with box-drawing connectors:
//
//	├── A
//	│   └── B
//	└── C
func writeTree(w io.Writer, tree *doctree.DocTree, showTitle bool, p painter) error {
	bw := bufio.NewWriter(w)
	if showTitle && tree.Title != "" {
		bw.WriteString(p.title(tree.Title))
		bw.WriteByte('\n')
	}

	var draw func(nodes []*doctree.Node, prefix string)
	draw = func(nodes []*doctree.Node, prefix string) {
		for i, n := range nodes {
			connector, indent := "├── ", "│   "
			if i == len(nodes)-1 {
				connector, indent = "└── ", "    "
			}
			bw.WriteString(p.branch(prefix + connector))
			bw.WriteString(p.node(n))
			bw.WriteByte('\n')
			draw(n.Children, prefix+indent)
		}
	}
	draw(tree.Roots, "")
	return bw.Flush()
}
