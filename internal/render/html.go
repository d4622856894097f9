package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/yuin/goldmark"
)

// writeHTML converts the forest to Markdown and lets goldmark render it.
// Items become nested <ul> lists; plain-text nodes become paragraphs.
func writeHTML(w io.Writer, tree *doctree.DocTree) error {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(markdownOf(tree)), &buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// markdownOf writes items as "- " bullets indented two spaces per level.
// Text nodes are preceded by a blank line so that goldmark opens a new
// paragraph for them rather than continuing the item above.
func markdownOf(tree *doctree.DocTree) string {
	var sb strings.Builder
	if tree.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(escapeMarkdown(tree.Title))
		sb.WriteString("\n\n")
	}

	var prev doctree.Kind
	for i, root := range tree.Roots {
		if i > 0 && (root.Kind == doctree.KindText || prev == doctree.KindText) {
			sb.WriteByte('\n')
		}
		prev = root.Kind
		doctree.Walk([]*doctree.Node{root}, func(n *doctree.Node, ancestors []*doctree.Node) bool {
			if n.Kind == doctree.KindText && len(ancestors) > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(strings.Repeat("  ", len(ancestors)))
			if n.Kind != doctree.KindText {
				sb.WriteString("- ")
			}
			sb.WriteString(escapeMarkdown(n.Value))
			sb.WriteByte('\n')
			return true
		})
	}
	return sb.String()
}

// escapeMarkdown backslash-escapes ASCII punctuation so values render as
// literal text.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && isPunct(byte(r)) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
