package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Nested <ul>/<ol> lists give item depth;
// paragraphs and headings become plain lines at the surrounding list depth.
type HTMLParser struct {
	Options outline.Options
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := titleFromFilename(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	w := newOutlineWriter(p.Options)

	// listDepth counts enclosing <ul>/<ol> elements.
	var walk func(n *html.Node, listDepth int)
	walk = func(n *html.Node, listDepth int) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head", "template":
				return
			case "ul", "ol":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c, listDepth+1)
				}
				return
			case "li":
				w.Item(max(listDepth-1, 0), ownText(n))
				eachNestedList(n, func(list *html.Node) { walk(list, listDepth) })
				return
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "td", "dt", "dd":
				w.Text(listDepth, textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, listDepth)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body, 0)
	} else {
		walk(doc, 0)
	}

	return buildDocTree(title, w.String(), p.Options)
}

// ownText is the text of an <li> excluding any nested lists.
func ownText(li *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if isElement(n, "ul", "ol") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		extract(c)
	}
	return strings.TrimSpace(buf.String())
}

// eachNestedList calls fn for the outermost lists below n.
func eachNestedList(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "ul", "ol") {
			fn(c)
			continue
		}
		eachNestedList(c, fn)
	}
}

func isElement(n *html.Node, tags ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
