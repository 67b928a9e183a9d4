package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is the narrow view of the parsed page the extractor walks.
type Node interface {
	// FindAll returns descendants with any of the given tags, in document order.
	FindAll(tags ...string) []Node
	// FindNext returns the first element with the tag that starts after this
	// node's start tag, or nil.
	FindNext(tag string) Node
	// Text joins the trimmed, non-empty text pieces under the node with a space.
	Text() string
	Attr(name string) (string, bool)
	// PrecedingText returns up to limit non-blank text nodes that appear before
	// this node in document order, nearest first.
	PrecedingText(limit int) []string
}

// Document wraps a goquery document with a document-order index so the
// backward and forward walks do not rescan the tree.
type Document struct {
	doc   *goquery.Document
	order map[*html.Node]int
	texts []textPos
	elems []*html.Node
}

type textPos struct {
	pos  int
	data string
}

// FromHTML parses already-fetched markup.
func FromHTML(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return NewDocument(doc), nil
}

func NewDocument(doc *goquery.Document) *Document {
	d := &Document{doc: doc, order: make(map[*html.Node]int)}
	pos := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		d.order[n] = pos
		switch n.Type {
		case html.ElementNode:
			d.elems = append(d.elems, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				d.texts = append(d.texts, textPos{pos: pos, data: n.Data})
			}
		}
		pos++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return d
}

func (d *Document) root() *element {
	return &element{doc: d, sel: d.doc.Selection}
}

func (d *Document) FindAll(tags ...string) []Node { return d.root().FindAll(tags...) }

func (d *Document) FindNext(tag string) Node { return d.root().FindNext(tag) }

func (d *Document) Text() string { return d.root().Text() }

func (d *Document) Attr(string) (string, bool) { return "", false }

func (d *Document) PrecedingText(int) []string { return nil }

type element struct {
	doc *Document
	sel *goquery.Selection
}

func (e *element) node() *html.Node {
	if len(e.sel.Nodes) == 0 {
		return nil
	}
	return e.sel.Nodes[0]
}

func (e *element) FindAll(tags ...string) []Node {
	var out []Node
	e.sel.Find(strings.Join(tags, ", ")).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{doc: e.doc, sel: s})
	})
	return out
}

func (e *element) FindNext(tag string) Node {
	start := -1
	if n := e.node(); n != nil && n.Type != html.DocumentNode {
		start = e.doc.order[n]
	}
	for _, n := range e.doc.elems {
		if e.doc.order[n] > start && n.Data == tag {
			return &element{doc: e.doc, sel: e.doc.doc.FindNodes(n)}
		}
	}
	return nil
}

func (e *element) Text() string {
	var parts []string
	for _, n := range e.sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) PrecedingText(limit int) []string {
	n := e.node()
	if n == nil {
		return nil
	}
	pos := e.doc.order[n]
	var out []string
	for i := len(e.doc.texts) - 1; i >= 0 && len(out) < limit; i-- {
		if e.doc.texts[i].pos < pos {
			out = append(out, e.doc.texts[i].data)
		}
	}
	return out
}
