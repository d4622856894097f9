package parser

import (
	"io"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
)

// TextParser handles plain outline files.
type TextParser struct {
	Options outline.Options
}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return buildDocTree(titleFromFilename(filename), string(src), p.Options)
}
