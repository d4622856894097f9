package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs in Word list styles become
// items at the style's level; other paragraphs are classified as typed.
type DOCXParser struct {
	Options outline.Options
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "listtree-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	w := newOutlineWriter(p.Options)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if level, ok := docxListLevel(para); ok {
			w.Item(level, text)
			continue
		}
		w.Raw(text)
	}

	return buildDocTree(titleFromFilename(filename), w.String(), p.Options)
}

// docxListLevel maps Word's built-in list styles to a 0-based level:
// "List Bullet" and "List Paragraph" are level 0, "List Bullet 3" level 2.
func docxListLevel(para *docx.Paragraph) (int, bool) {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0, false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))

	for _, prefix := range []string{"listbullet", "listnumber", "listparagraph", "list"} {
		rest, ok := strings.CutPrefix(style, prefix)
		if !ok {
			continue
		}
		if rest == "" {
			return 0, true
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return 0, false
		}
		return n - 1, true
	}
	return 0, false
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimRight(buf.String(), " \t\r\n")
}
