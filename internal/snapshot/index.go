// File: internal/snapshot/index.go

// Package snapshot implements the page structure engine: it converts a live,
// mutable DOM into a stable, serializable description of interactive elements
// as either a flat outline or a pruned, depth bounded hierarchy.
package snapshot

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// docIndex holds the invocation scoped frequency maps used for O(1) amortized
// selector uniqueness checks, plus the label association tables the name
// resolver needs. It is built by a single O(n) document walk at the start of
// a capture and discarded with it; never shared across invocations.
type docIndex struct {
	idCount       map[string]int
	testIDCount   map[string]int
	dataTestCount map[string]int
	classKeyCount map[string]int

	byID       map[string]dom.Node
	labelFor   map[string]dom.Node
	totalNodes int
}

// buildIndex walks the whole document once, iteratively, and fills every map.
func buildIndex(doc dom.Document) *docIndex {
	idx := &docIndex{
		idCount:       make(map[string]int),
		testIDCount:   make(map[string]int),
		dataTestCount: make(map[string]int),
		classKeyCount: make(map[string]int),
		byID:          make(map[string]dom.Node),
		labelFor:      make(map[string]dom.Node),
	}

	root := doc.Body()
	if root == nil {
		return idx
	}

	stack := []dom.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		idx.totalNodes++

		if id, ok := n.Attr("id"); ok && id != "" {
			idx.idCount[id]++
			if _, seen := idx.byID[id]; !seen {
				idx.byID[id] = n
			}
		}
		if v, ok := n.Attr("data-testid"); ok && v != "" {
			idx.testIDCount[v]++
		}
		if v, ok := n.Attr("data-test"); ok && v != "" {
			idx.dataTestCount[v]++
		}
		if key := classKey(n); key != "" {
			idx.classKeyCount[key]++
		}
		if n.TagName() == "label" {
			if forID, ok := n.Attr("for"); ok && forID != "" {
				if _, seen := idx.labelFor[forID]; !seen {
					idx.labelFor[forID] = n
				}
			}
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return idx
}

// classKey returns the sorted class combination of an element, or "" when the
// element carries no classes. Sorting makes the key order independent, so
// "btn primary" and "primary btn" collide as they must.
func classKey(n dom.Node) string {
	raw, ok := n.Attr("class")
	if !ok {
		return ""
	}
	classes := strings.Fields(raw)
	if len(classes) == 0 {
		return ""
	}
	sort.Strings(classes)
	return strings.Join(classes, ".")
}
