package outline

import (
	"iter"
	"strings"
)

// Kind is the classification of a single source line.
type Kind int

const (
	KindBlank Kind = iota // Whitespace only
	KindItem              // Starts with the list marker
	KindText              // Anything else
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindItem:
		return "item"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Line is one classified source line.
type Line struct {
	Text  string // Content without indentation, marker or trailing whitespace
	Depth int    // Leading whitespace width divided by the indent width
	Index int    // 1-based line number
	Kind  Kind
}

// Classifier splits input into classified lines.
type Classifier struct {
	opts Options
}

// NewClassifier returns a classifier; zero option fields take defaults.
func NewClassifier(opts Options) Classifier {
	return Classifier{opts: opts.withDefaults()}
}

// Lines yields one Line per newline-separated line of input, in order.
// The sequence is lazy and can be ranged over any number of times.
func (c Classifier) Lines(input string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		index := 0
		for raw := range strings.SplitSeq(input, "\n") {
			index++
			if !yield(c.Classify(raw, index)) {
				return
			}
		}
	}
}

// Classify classifies a single line. index is only carried through.
func (c Classifier) Classify(raw string, index int) Line {
	c.opts = c.opts.withDefaults()
	width, rest := c.indentation(raw)
	// Stray carriage returns from mixed line endings count as trailing space.
	rest = strings.TrimRight(rest, " \t\r")
	if rest == "" {
		return Line{Index: index, Kind: KindBlank}
	}

	depth := width / c.opts.IndentWidth
	if text, ok := c.stripMarker(rest); ok {
		return Line{Text: text, Depth: depth, Index: index, Kind: KindItem}
	}
	return Line{Text: rest, Depth: depth, Index: index, Kind: KindText}
}

// indentation measures leading whitespace. A tab counts as one full level.
func (c Classifier) indentation(raw string) (int, string) {
	width := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ':
			width++
		case '\t':
			width += c.opts.IndentWidth
		default:
			return width, raw[i:]
		}
	}
	return width, ""
}

// stripMarker reports whether s begins with the marker followed by
// whitespace or end of line, and returns the remaining text. "-item" is
// not a list item.
func (c Classifier) stripMarker(s string) (string, bool) {
	after, ok := strings.CutPrefix(s, c.opts.Marker)
	if !ok {
		return "", false
	}
	if after == "" {
		return "", true
	}
	if after[0] != ' ' && after[0] != '\t' {
		return "", false
	}
	return strings.TrimLeft(after, " \t"), true
}
