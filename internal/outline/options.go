// Package outline turns indented, dash-marked text into a forest of
// doctree nodes. Lines are classified first (Classifier.Lines) and then
// attached to their nearest shallower ancestor (Build). Both steps are total:
// any UTF-8 input yields a forest, possibly empty.
package outline

const (
	// DefaultIndentWidth is one space per level, as in "- a\n - b".
	DefaultIndentWidth = 1
	// DefaultMarker is the list-item prefix.
	DefaultMarker = "-"
)

// Options configures classification.
type Options struct {
	IndentWidth int    // Leading whitespace columns per depth level
	Marker      string // List-item marker
}

// DefaultOptions returns single-space indentation with "-" markers.
func DefaultOptions() Options {
	return Options{
		IndentWidth: DefaultIndentWidth,
		Marker:      DefaultMarker,
	}
}

// withDefaults fills zero values so a zero Options is usable.
func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	return o
}
