// Package render writes a DocTree in one of several output formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output format.
type Format string

const (
	FormatText   Format = "text"
	FormatTree   Format = "tree"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatHTML   Format = "html"
	FormatStyled Format = "styled"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatTree, FormatJSON, FormatYAML, FormatHTML, FormatStyled}

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType is the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Options controls the text-based formats.
type Options struct {
	Outline   outline.Options // Indent and marker for the text format
	ShowTitle bool            // Print the title above tree and styled output
}

// Render writes tree to w in the given format.
func Render(w io.Writer, tree *doctree.DocTree, format Format, opts Options) error {
	if tree == nil {
		tree = &doctree.DocTree{}
	}
	switch format {
	case FormatText:
		return writeText(w, tree.Roots, opts.Outline)
	case FormatTree:
		return writeTree(w, tree, opts.ShowTitle, plainPainter)
	case FormatStyled:
		return writeTree(w, tree, opts.ShowTitle, styledPainter)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(withRoots(tree))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(withRoots(tree)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatHTML:
		return writeHTML(w, tree)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// withRoots makes an empty forest encode as [] rather than null.
func withRoots(tree *doctree.DocTree) *doctree.DocTree {
	if tree.Roots != nil {
		return tree
	}
	cp := *tree
	cp.Roots = []*doctree.Node{}
	return &cp
}
