// File: internal/dom/htmldom/htmldom.go

// Package htmldom binds a parsed HTML document to the dom capability
// interface. It has no real layout engine: rectangles come from inline style
// positioning when present and fall back to a synthetic full-width row, which
// is enough to honor the visibility predicate deterministically.
package htmldom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// DefaultViewport is the synthetic viewport used when the caller does not
// supply one.
var DefaultViewport = dom.Rect{X: 0, Y: 0, W: 1280, H: 720}

const syntheticRowHeight = 16

// Document implements dom.Document over an x/net/html parse tree.
type Document struct {
	body     *Element
	url      string
	title    string
	viewport dom.Rect
	active   *Element
}

// Element implements dom.Node.
type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	parent   *Element
	children []dom.Node
	text     string
	style    inlineStyle
}

type inlineStyle struct {
	display    string
	visibility string
	opacity    float64
	hasOpacity bool
	rect       dom.Rect
	hasRect    [4]bool // left, top, width, height present
}

// Option tweaks document construction.
type Option func(*Document)

// WithURL records the document location reported in snapshot metadata.
func WithURL(u string) Option { return func(d *Document) { d.url = u } }

// WithViewport overrides the synthetic viewport rectangle.
func WithViewport(v dom.Rect) Option { return func(d *Document) { d.viewport = v } }

// Parse builds a Document from an HTML stream.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc := &Document{viewport: DefaultViewport}
	for _, opt := range opts {
		opt(doc)
	}

	var body, title *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "body":
				if body == nil {
					body = n
				}
			case "title":
				if title == nil {
					title = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)

	if title != nil {
		doc.title = strings.TrimSpace(rawText(title))
	}
	if body == nil {
		return nil, fmt.Errorf("document has no body element")
	}
	doc.body = doc.build(body, nil)
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

func (d *Document) Body() dom.Node     { return d.body }
func (d *Document) URL() string        { return d.url }
func (d *Document) Title() string      { return d.title }
func (d *Document) Viewport() dom.Rect { return d.viewport }

// build converts one html element node and its element descendants.
func (d *Document) build(n *html.Node, parent *Element) *Element {
	el := &Element{
		doc:    d,
		tag:    strings.ToLower(n.Data),
		attrs:  make(map[string]string, len(n.Attr)),
		parent: parent,
	}
	for _, a := range n.Attr {
		el.attrs[strings.ToLower(a.Key)] = a.Val
	}
	el.style = parseInlineStyle(el.attrs["style"])
	if _, hidden := el.attrs["hidden"]; hidden && el.style.display == "" {
		el.style.display = "none"
	}
	if _, ok := el.attrs["autofocus"]; ok && d.active == nil {
		d.active = el
	}

	el.text = strings.TrimSpace(rawText(n))
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			el.children = append(el.children, d.build(c, el))
		}
	}
	return el
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// parseInlineStyle reads the handful of declarations the engine honors from a
// style attribute: display, visibility, opacity and px based positioning.
func parseInlineStyle(s string) inlineStyle {
	st := inlineStyle{opacity: 1}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		switch k {
		case "display":
			st.display = strings.ToLower(v)
		case "visibility":
			st.visibility = strings.ToLower(v)
		case "opacity":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				st.opacity = f
				st.hasOpacity = true
			}
		case "left":
			if f, ok := parsePx(v); ok {
				st.rect.X = f
				st.hasRect[0] = true
			}
		case "top":
			if f, ok := parsePx(v); ok {
				st.rect.Y = f
				st.hasRect[1] = true
			}
		case "width":
			if f, ok := parsePx(v); ok {
				st.rect.W = f
				st.hasRect[2] = true
			}
		case "height":
			if f, ok := parsePx(v); ok {
				st.rect.H = f
				st.hasRect[3] = true
			}
		}
	}
	return st
}

func parsePx(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// -- dom.Node implementation --

func (e *Element) TagName() string { return e.tag }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

func (e *Element) Children() []dom.Node { return e.children }

func (e *Element) Parent() dom.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Text() string { return e.text }

// BoundingRect reports the inline-style box when one was declared, otherwise
// a synthetic full-width row. Elements out of layout report a zero rect, the
// same observable behavior a real browser gives for display:none.
func (e *Element) BoundingRect() dom.Rect {
	if !e.InLayout() {
		return dom.Rect{}
	}
	r := dom.Rect{X: 0, Y: 0, W: e.doc.viewport.W, H: syntheticRowHeight}
	if e.style.hasRect[0] {
		r.X = e.style.rect.X
	}
	if e.style.hasRect[1] {
		r.Y = e.style.rect.Y
	}
	if e.style.hasRect[2] {
		r.W = e.style.rect.W
	}
	if e.style.hasRect[3] {
		r.H = e.style.rect.H
	}
	return r
}

// ComputedStyle resolves visibility by inheritance; display is per element.
func (e *Element) ComputedStyle() dom.Style {
	display := e.style.display
	if display == "" {
		display = "block"
	}
	visibility := "visible"
	for n := e; n != nil; n = n.parent {
		if n.style.visibility != "" {
			visibility = n.style.visibility
			break
		}
	}
	opacity := 1.0
	if e.style.hasOpacity {
		opacity = e.style.opacity
	}
	return dom.Style{Display: display, Visibility: visibility, Opacity: opacity}
}

// InLayout is false when the element or any ancestor is display:none.
func (e *Element) InLayout() bool {
	for n := e; n != nil; n = n.parent {
		if n.style.display == "none" {
			return false
		}
	}
	return true
}

func (e *Element) Focused() bool { return e.doc.active == e }
