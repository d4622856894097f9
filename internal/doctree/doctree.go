package doctree

// Kind tells whether a node came from a list item or a plain-text line.
type Kind string

const (
	KindItem Kind = "item"
	KindText Kind = "text"
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Title string  `json:"title" yaml:"title"` // Document title (from metadata or filename)
	Roots []*Node `json:"roots" yaml:"roots"` // Top-level items, in document order
}

// Node is one list item or plain-text line in the forest.
type Node struct {
	Value    string  `json:"value" yaml:"value"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Depth    int     `json:"depth" yaml:"depth"` // Normalized depth, 0 for roots
	Span     Span    `json:"span" yaml:"span"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Span is the range of 1-based source lines covered by a node and its subtree.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Entry is a node flattened together with the values of its ancestors.
type Entry struct {
	Breadcrumb []string // Values from the root down to and including the node
	Value      string
	Depth      int
	Line       int
}
