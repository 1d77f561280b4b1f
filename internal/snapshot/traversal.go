// File: internal/snapshot/traversal.go
package snapshot

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// interactiveTags and interactiveRoles are the precomputed lookup sets behind
// the O(1) interactivity predicate. A recomputed compound selector match per
// element is exactly what these exist to avoid.
var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"textarea": true,
	"select":   true,
}

var interactiveRoles = map[string]bool{
	"button":           true,
	"link":             true,
	"checkbox":         true,
	"radio":            true,
	"textbox":          true,
	"searchbox":        true,
	"combobox":         true,
	"listbox":          true,
	"option":           true,
	"menuitem":         true,
	"menuitemcheckbox": true,
	"menuitemradio":    true,
	"slider":           true,
	"spinbutton":       true,
	"switch":           true,
	"tab":              true,
}

// isInteractive reports whether a user could operate the element directly.
func isInteractive(n dom.Node) bool {
	if interactiveTags[n.TagName()] {
		return true
	}
	if n.TagName() == "a" && dom.HasAttr(n, "href") {
		return true
	}
	if role, ok := n.Attr("role"); ok && interactiveRoles[strings.ToLower(role)] {
		return true
	}
	if dom.HasAttrPresent(n, "onclick") {
		return true
	}
	if ti, ok := n.Attr("tabindex"); ok && strings.TrimSpace(ti) != "-1" {
		return true
	}
	return false
}

// optionalAttrs lists the attributes copied onto emitted nodes, paired with
// their destination assignment.
var optionalAttrs = []string{"id", "class", "href", "src", "alt", "title", "type", "placeholder", "aria-label", "role"}

// traverser carries the per invocation traversal state. All of it, including
// the document index, is allocated fresh per capture; two captures against
// different documents never interfere.
type traverser struct {
	doc      dom.Document
	opts     schemas.SnapshotOptions
	idx      *docIndex
	logger   *zap.Logger
	viewport dom.Rect

	scanned  int
	failures int
}

func newTraverser(doc dom.Document, opts schemas.SnapshotOptions, idx *docIndex, logger *zap.Logger) *traverser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &traverser{
		doc:      doc,
		opts:     opts,
		idx:      idx,
		logger:   logger,
		viewport: doc.Viewport(),
	}
}

// outline performs the flat pass: a single pre-order walk over the document,
// emitting every interactive element in document order.
func (t *traverser) outline() []schemas.SnapshotNode {
	nodes := []schemas.SnapshotNode{}
	root := t.doc.Body()
	if root == nil {
		return nodes
	}

	stack := []dom.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.scanned++

		if t.safeInteractive(n) && (!t.opts.VisibleOnly || t.safeVisible(n)) {
			if sn, err := t.buildNode(n, true, nil, ""); err == nil {
				nodes = append(nodes, *sn)
			}
		}

		children := t.safeChildren(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nodes
}

// domLiteFrame is one unit of work for the hierarchical pass. An explicit
// work stack keeps stack usage bounded no matter how deep the DOM is.
type domLiteFrame struct {
	node      dom.Node
	level     int
	parentSel string
}

// domLite performs the depth bounded hierarchical pass. An element is part of
// the hierarchy iff it is the root, is itself interactive, or has at least
// one interactive element in its strict subtree; everything else is pruned
// together with its subtree. Levels count depth within the emitted hierarchy
// and Parent links each node to its nearest emitted ancestor.
func (t *traverser) domLite() []schemas.SnapshotNode {
	nodes := []schemas.SnapshotNode{}
	root := t.doc.Body()
	if root == nil {
		return nodes
	}

	hasInteractive := t.interactiveDescendants(root)

	stack := []domLiteFrame{{node: root, level: 0, parentSel: ""}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.scanned++

		interactive := t.safeInteractive(f.node)
		isRoot := f.node == root
		if !isRoot && !interactive && !hasInteractive[f.node] {
			continue
		}

		emit := true
		if t.opts.VisibleOnly && !isRoot && !t.safeVisible(f.node) {
			// A subtree out of layout cannot render anything; drop it whole.
			// Other invisibility (visibility:hidden, zero area, offscreen) is
			// not inherited the same way, so only the node itself is skipped
			// and descendants keep their chance.
			if !t.safeInLayout(f.node) {
				continue
			}
			emit = false
		}

		childParentSel := f.parentSel
		childLevel := f.level
		if emit {
			level := f.level
			if sn, err := t.buildNode(f.node, interactive, &level, f.parentSel); err == nil {
				nodes = append(nodes, *sn)
				childParentSel = sn.Selector
				childLevel = f.level + 1
			}
		}

		// The depth bound prunes subtrees whose nodes would exceed maxDepth.
		if childLevel > t.opts.MaxDepth {
			continue
		}
		children := t.safeChildren(f.node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, domLiteFrame{node: children[i], level: childLevel, parentSel: childParentSel})
		}
	}
	return nodes
}

// reducedOutline is the fallback engine used when the full script keeps
// failing in the target context: no uniqueness caching, no accessibility or
// state extraction. Just tag, rect and a plain path selector.
func (t *traverser) reducedOutline() []schemas.SnapshotNode {
	nodes := []schemas.SnapshotNode{}
	root := t.doc.Body()
	if root == nil {
		return nodes
	}

	stack := []dom.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.scanned++

		if t.safeInteractive(n) && (!t.opts.VisibleOnly || t.safeVisible(n)) {
			if sn, err := t.buildReducedNode(n); err == nil {
				nodes = append(nodes, *sn)
			}
		}

		children := t.safeChildren(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nodes
}

// interactiveDescendants computes, for every element under root, whether its
// strict subtree contains an interactive element. Iterative post-order: a
// frame is expanded once, then folded after its children are done.
func (t *traverser) interactiveDescendants(root dom.Node) map[dom.Node]bool {
	flags := make(map[dom.Node]bool)

	type frame struct {
		node     dom.Node
		expanded bool
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if !f.expanded {
			f.expanded = true
			for _, c := range t.safeChildren(f.node) {
				stack = append(stack, frame{node: c})
			}
			continue
		}
		stack = stack[:len(stack)-1]
		has := false
		for _, c := range t.safeChildren(f.node) {
			if t.safeInteractive(c) || flags[c] {
				has = true
				break
			}
		}
		flags[f.node] = has
	}
	return flags
}

// buildNode assembles a full snapshot node. Any panic from a poisoned host
// property getter is recovered here: the element is logged, skipped, and the
// traversal keeps going.
func (t *traverser) buildNode(n dom.Node, interactive bool, level *int, parentSel string) (sn *schemas.SnapshotNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			err = fmt.Errorf("node processing failed: %v", r)
			t.logger.Debug("Skipping element after processing failure.",
				zap.String("kind", string(schemas.ErrKindNodeProcessing)),
				zap.Any("cause", r))
		}
	}()

	node := schemas.SnapshotNode{
		Role:     resolveRole(n),
		Name:     resolveName(n, t.idx),
		Selector: resolveSelector(n, t.idx),
		Rect:     roundRect(n.BoundingRect()),
		TagName:  n.TagName(),
		State:    extractState(n),
	}
	if level != nil {
		lvl := *level
		node.Level = &lvl
		node.Parent = parentSel
	}

	// Optional attributes ride along only on interactive nodes; structural
	// hierarchy nodes stay lean to keep the payload small.
	if interactive {
		attachOptionalAttrs(&node, n)
	}
	return &node, nil
}

// buildReducedNode assembles the reduced-feature node shape.
func (t *traverser) buildReducedNode(n dom.Node) (sn *schemas.SnapshotNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			err = fmt.Errorf("node processing failed: %v", r)
			t.logger.Debug("Skipping element after processing failure.",
				zap.String("kind", string(schemas.ErrKindNodeProcessing)),
				zap.Any("cause", r))
		}
	}()

	return &schemas.SnapshotNode{
		TagName:  n.TagName(),
		Rect:     roundRect(n.BoundingRect()),
		Selector: pathSelector(n, nil),
	}, nil
}

func attachOptionalAttrs(node *schemas.SnapshotNode, n dom.Node) {
	for _, attr := range optionalAttrs {
		v, ok := n.Attr(attr)
		if !ok || v == "" {
			continue
		}
		switch attr {
		case "id":
			node.ID = v
		case "class":
			node.ClassName = v
		case "href":
			node.Href = v
		case "src":
			node.Src = v
		case "alt":
			node.Alt = v
		case "title":
			node.Title = v
		case "type":
			node.Type = v
		case "placeholder":
			node.Placeholder = v
		case "aria-label":
			node.AriaLabel = v
		case "role":
			node.AriaRole = v
		}
	}
}

// safeInteractive, safeVisible and safeChildren shield the walk from host
// object reads that throw; a failing element is treated as inert.
func (t *traverser) safeInteractive(n dom.Node) (out bool) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			out = false
		}
	}()
	return isInteractive(n)
}

func (t *traverser) safeInLayout(n dom.Node) (out bool) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			out = false
		}
	}()
	return n.InLayout() && n.ComputedStyle().Display != "none"
}

func (t *traverser) safeVisible(n dom.Node) (out bool) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			out = false
		}
	}()
	return isVisible(n, t.viewport)
}

func (t *traverser) safeChildren(n dom.Node) (out []dom.Node) {
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			out = nil
		}
	}()
	return n.Children()
}

// roundRect converts a float box to integer pixels, clamping negative sizes.
func roundRect(r dom.Rect) schemas.ElementRect {
	return schemas.ElementRect{
		X: int(math.Round(r.X)),
		Y: int(math.Round(r.Y)),
		W: max(0, int(math.Round(r.W))),
		H: max(0, int(math.Round(r.H))),
	}
}
