package parser

import (
	"bytes"
	"testing"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"github.com/fumiama/go-docx"
)

func styledParagraph(style string) *docx.Paragraph {
	return &docx.Paragraph{
		Properties: &docx.ParagraphProperties{
			Style: &docx.Style{Val: style},
		},
	}
}

func TestDocxListLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
		ok    bool
	}{
		{"List Bullet", 0, true},
		{"ListBullet", 0, true},
		{"List Bullet 2", 1, true},
		{"List Number 3", 2, true},
		{"List Paragraph", 0, true},
		{"List 4", 3, true},
		{"Heading1", 0, false},
		{"Normal", 0, false},
		{"List Bullet 0", 0, false},
		{"List Bulletin", 0, false},
	}
	for _, tt := range tests {
		level, ok := docxListLevel(styledParagraph(tt.style))
		if ok != tt.ok || level != tt.level {
			t.Errorf("docxListLevel(%q) = (%d, %v), want (%d, %v)", tt.style, level, ok, tt.level, tt.ok)
		}
	}

	if _, ok := docxListLevel(&docx.Paragraph{}); ok {
		t.Error("expected paragraph without properties to be plain")
	}
}

func TestDOCXParser_NestedList(t *testing.T) {
	doc := docx.New().WithDefaultTheme()
	add := func(style, text string) {
		para := doc.AddParagraph()
		para.AddText(text)
		if style != "" {
			para.Properties = &docx.ParagraphProperties{Style: &docx.Style{Val: style}}
		}
	}
	add("", "Shopping")
	add("List Bullet", "Fruit")
	add("List Bullet 2", "Apples")
	add("List Number 2", "Pears")
	add("Normal", "- Bread")

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	p := &DOCXParser{Options: outline.DefaultOptions()}
	tree, err := p.Parse(bytes.NewReader(buf.Bytes()), "groceries.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "groceries" {
		t.Errorf("expected title %q, got %q", "groceries", tree.Title)
	}
	if got, want := outlineOf(tree.Roots), "Shopping\nFruit\n.Apples\n.Pears\nBread\n"; got != want {
		t.Errorf("expected outline %q, got %q", want, got)
	}
	if len(tree.Roots) != 3 || tree.Roots[0].Kind != doctree.KindText || tree.Roots[2].Kind != doctree.KindItem {
		t.Errorf("unexpected root kinds for %q", outlineOf(tree.Roots))
	}
}

func TestDOCXParser_InvalidArchive(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(bytes.NewReader([]byte("not a zip")), "junk.docx"); err == nil {
		t.Error("expected error for non-DOCX input")
	}
}
