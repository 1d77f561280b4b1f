// File: internal/snapshot/selector.go
package snapshot

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// resolveSelector computes a locator unique within the current document at
// call time. The cascade prefers human stable handles over positional paths:
// unique id, unique test attributes, unique class combination, and only then
// a tag/nth-child path. Uniqueness checks hit the prebuilt frequency maps,
// never the document.
func resolveSelector(n dom.Node, idx *docIndex) string {
	if id, ok := n.Attr("id"); ok && id != "" && idx.idCount[id] == 1 {
		return "#" + cssEscape(id)
	}
	if v, ok := n.Attr("data-testid"); ok && v != "" && idx.testIDCount[v] == 1 {
		return fmt.Sprintf(`[data-testid=%q]`, v)
	}
	if v, ok := n.Attr("data-test"); ok && v != "" && idx.dataTestCount[v] == 1 {
		return fmt.Sprintf(`[data-test=%q]`, v)
	}
	if key := classKey(n); key != "" && idx.classKeyCount[key] == 1 {
		var b strings.Builder
		for _, c := range strings.Split(key, ".") {
			b.WriteString(".")
			b.WriteString(cssEscape(c))
		}
		return b.String()
	}
	return pathSelector(n, idx)
}

// pathSelector walks from the element to the document root, building
// tag[:nth-child(i)] segments. The walk stops early at the first ancestor
// with a document unique id, which anchors the path and keeps it short.
func pathSelector(n dom.Node, idx *docIndex) string {
	var segments []string
	for cur := n; cur != nil; cur = cur.Parent() {
		if idx != nil {
			if id, ok := cur.Attr("id"); ok && id != "" && idx.idCount[id] == 1 {
				segments = append(segments, "#"+cssEscape(id))
				break
			}
		}
		segments = append(segments, pathSegment(cur))
	}
	// The walk collected leaf-first; reverse into document order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, " > ")
}

// pathSegment renders one path step. nth-child is appended only when more
// than one sibling shares the tag name, to keep selectors short.
func pathSegment(n dom.Node) string {
	tag := n.TagName()
	parent := n.Parent()
	if parent == nil {
		return tag
	}

	siblings := parent.Children()
	sameTag := 0
	position := 0
	for i, sib := range siblings {
		if sib.TagName() == tag {
			sameTag++
		}
		if sib == n {
			position = i + 1
		}
	}
	if sameTag <= 1 {
		return tag
	}
	return fmt.Sprintf("%s:nth-child(%d)", tag, position)
}

// cssEscape escapes a string for use as a CSS identifier. It covers the
// characters that actually appear in real-world ids and class names rather
// than the full CSSOM serialization algorithm.
func cssEscape(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			// A leading digit must be escaped as a code point.
			if i == 0 {
				fmt.Fprintf(&b, "\\3%c ", r)
			} else {
				b.WriteRune(r)
			}
		case r > 0x7f:
			b.WriteRune(r)
		default:
			b.WriteString("\\")
			b.WriteRune(r)
		}
	}
	return b.String()
}
