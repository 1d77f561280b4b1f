// File: internal/snapshot/visibility.go
package snapshot

import "github.com/xkilldash9x/pagelens-cli/internal/dom"

// isVisible is the viewport/CSS visibility predicate. An element passes when
// it participates in layout, its computed style does not hide it, and its box
// has positive area intersecting the viewport. Only result inclusion uses
// this; selector and accessibility computation never depend on it.
func isVisible(n dom.Node, viewport dom.Rect) bool {
	if !n.InLayout() {
		return false
	}
	style := n.ComputedStyle()
	if style.Display == "none" || style.Visibility == "hidden" || style.Visibility == "collapse" {
		return false
	}
	if style.Opacity <= 0 {
		return false
	}
	rect := n.BoundingRect()
	if rect.W <= 0 || rect.H <= 0 {
		return false
	}
	return rect.Intersects(viewport)
}
