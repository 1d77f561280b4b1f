// File: internal/dom/dom.go

// Package dom defines the capability interface the snapshot engine reads the
// page through. It abstracts the host document as a plain object graph so the
// traversal logic can run over any binding: a parsed HTML file, a test
// fixture, or a remote proxy to a live browser.
package dom

// Rect is an axis aligned box in viewport pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Intersects reports whether the two rectangles overlap in a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Style carries the computed style properties the engine cares about.
type Style struct {
	Display    string
	Visibility string
	Opacity    float64
}

// Node is a single element of the document. Implementations may be backed by
// live host objects whose property reads can fail; such failures surface as
// panics and are recovered per element by the traversal engine.
type Node interface {
	// TagName returns the lowercase tag name.
	TagName() string
	// Attr returns the value of an attribute and whether it is present.
	Attr(name string) (string, bool)
	// Children returns the element children in document order.
	Children() []Node
	// Parent returns the parent element, or nil at the root.
	Parent() Node
	// Text returns the concatenated descendant text content.
	Text() string
	// BoundingRect returns the viewport relative bounding box.
	BoundingRect() Rect
	// ComputedStyle returns the resolved display/visibility/opacity.
	ComputedStyle() Style
	// InLayout reports whether the element participates in layout, the
	// equivalent of a non-null offsetParent.
	InLayout() bool
	// Focused reports whether this element is the document's active element.
	Focused() bool
}

// Document is the root handle the engine traverses from.
type Document interface {
	// Body returns the document body element.
	Body() Node
	// URL returns the document location, if known.
	URL() string
	// Title returns the document title, if known.
	Title() string
	// Viewport returns the visible viewport rectangle.
	Viewport() Rect
}

// HasAttr reports attribute presence with a non-empty value.
func HasAttr(n Node, name string) bool {
	v, ok := n.Attr(name)
	return ok && v != ""
}

// HasAttrPresent reports bare attribute presence; boolean HTML attributes
// like disabled or checked are true even with an empty value.
func HasAttrPresent(n Node, name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// AttrOr returns the attribute value or a fallback when absent.
func AttrOr(n Node, name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}
