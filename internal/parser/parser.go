package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
)

var (
	// ErrUnsupportedFormat is returned by ForFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file extension")
	// ErrInvalidEncoding is returned when text input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".list":     true,
	".outline":  true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts outline.Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".list", ".outline":
		return &TextParser{Options: opts}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Options: opts}, nil
	case ".csv":
		return &CSVParser{Options: opts}, nil
	case ".html", ".htm":
		return &HTMLParser{Options: opts}, nil
	case ".pdf":
		return &PDFParser{Options: opts, FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXParser{Options: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips directory and extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// buildDocTree runs outline text through the core builder.
func buildDocTree(title, text string, opts outline.Options) (*doctree.DocTree, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidEncoding
	}
	return &doctree.DocTree{
		Title: title,
		Roots: outline.BuildTree(text, opts),
	}, nil
}

// outlineWriter emits outline text in the configured marker and indent so
// that structured formats (HTML, DOCX, CSV) reuse the same builder rules.
type outlineWriter struct {
	sb   strings.Builder
	opts outline.Options
}

func newOutlineWriter(opts outline.Options) *outlineWriter {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = outline.DefaultIndentWidth
	}
	if opts.Marker == "" {
		opts.Marker = outline.DefaultMarker
	}
	return &outlineWriter{opts: opts}
}

// Item writes a list item at depth. Embedded newlines are folded to spaces.
func (w *outlineWriter) Item(depth int, text string) {
	text = foldSpace(text)
	if text == "" {
		return
	}
	w.indent(depth)
	w.sb.WriteString(w.opts.Marker)
	w.sb.WriteByte(' ')
	w.sb.WriteString(text)
	w.sb.WriteByte('\n')
}

// Text writes a plain-text line at depth. Text that itself starts with the
// marker and a space reads back as an item.
func (w *outlineWriter) Text(depth int, text string) {
	text = foldSpace(text)
	if text == "" {
		return
	}
	w.indent(depth)
	w.sb.WriteString(text)
	w.sb.WriteByte('\n')
}

// Raw writes a line unchanged so that its own indentation and marker are
// classified. Embedded line breaks are kept.
func (w *outlineWriter) Raw(line string) {
	w.sb.WriteString(line)
	w.sb.WriteByte('\n')
}

func (w *outlineWriter) indent(depth int) {
	if depth < 0 {
		depth = 0
	}
	w.sb.WriteString(strings.Repeat(" ", depth*w.opts.IndentWidth))
}

func (w *outlineWriter) String() string {
	return w.sb.String()
}

func foldSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
