// File: internal/snapshot/accessibility.go
package snapshot

import (
	"strings"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// nameMaxLen caps a text derived accessible name, ellipsis included.
const (
	nameMaxLen      = 50
	nameTruncateLen = 47
	nameEllipsis    = "..."
)

// tagRoles maps tags with an implicit ARIA role. Inputs are handled
// separately because their role depends on the type attribute.
var tagRoles = map[string]string{
	"button":   "button",
	"textarea": "textbox",
	"select":   "combobox",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"nav":      "navigation",
	"main":     "main",
	"article":  "article",
	"section":  "region",
	"header":   "banner",
	"footer":   "contentinfo",
	"img":      "img",
	"table":    "table",
	"thead":    "rowgroup",
	"tbody":    "rowgroup",
	"tfoot":    "rowgroup",
	"tr":       "row",
	"td":       "cell",
	"th":       "columnheader",
	"ul":       "list",
	"ol":       "list",
	"li":       "listitem",
	"form":     "form",
	"dialog":   "dialog",
}

// inputTypeRoles maps input[type] to its implicit role. Text-like types not
// listed here resolve to textbox.
var inputTypeRoles = map[string]string{
	"checkbox": "checkbox",
	"radio":    "radio",
	"range":    "slider",
	"search":   "searchbox",
	"number":   "spinbutton",
	"file":     "button",
	"submit":   "button",
	"button":   "button",
	"reset":    "button",
	"image":    "button",
}

// resolveRole computes the element role: explicit role attribute first, then
// the fixed tag tables, defaulting to "generic".
func resolveRole(n dom.Node) string {
	if role, ok := n.Attr("role"); ok && role != "" {
		return role
	}
	tag := n.TagName()
	switch tag {
	case "a":
		if dom.HasAttr(n, "href") {
			return "link"
		}
		return "generic"
	case "input":
		t := strings.ToLower(dom.AttrOr(n, "type", "text"))
		if role, ok := inputTypeRoles[t]; ok {
			return role
		}
		return "textbox"
	}
	if role, ok := tagRoles[tag]; ok {
		return role
	}
	return "generic"
}

// resolveName computes the accessible name through a strict priority cascade;
// the first source yielding non-empty text wins. When every source is empty
// the lowercase tag name is returned, so a name is never empty.
func resolveName(n dom.Node, idx *docIndex) string {
	if v, ok := n.Attr("aria-label"); ok {
		if name := collapseText(v); name != "" {
			return name
		}
	}
	if refs, ok := n.Attr("aria-labelledby"); ok {
		if name := collapseText(labelledByText(refs, idx)); name != "" {
			return name
		}
	}
	if id, ok := n.Attr("id"); ok && id != "" {
		if label, ok := idx.labelFor[id]; ok {
			if name := collapseText(label.Text()); name != "" {
				return name
			}
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "label" {
			if name := collapseText(p.Text()); name != "" {
				return name
			}
			break
		}
	}
	for _, attr := range []string{"title", "placeholder", "alt"} {
		if v, ok := n.Attr(attr); ok {
			if name := collapseText(v); name != "" {
				return name
			}
		}
	}
	if v := formValue(n); v != "" {
		if name := collapseText(v); name != "" {
			return name
		}
	}
	if name := collapseText(n.Text()); name != "" {
		return name
	}
	return n.TagName()
}

// labelledByText concatenates the text of every element referenced by a
// space separated aria-labelledby id list.
func labelledByText(refs string, idx *docIndex) string {
	var parts []string
	for _, id := range strings.Fields(refs) {
		if target, ok := idx.byID[id]; ok {
			if t := strings.TrimSpace(target.Text()); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// formValue returns the form value usable as a name source. Password values
// are never used as a name; they only appear masked in element state.
func formValue(n dom.Node) string {
	switch n.TagName() {
	case "input":
		if strings.EqualFold(dom.AttrOr(n, "type", "text"), "password") {
			return ""
		}
		return dom.AttrOr(n, "value", "")
	case "button", "option":
		return dom.AttrOr(n, "value", "")
	case "textarea":
		return n.Text()
	}
	return ""
}

// collapseText trims and whitespace-collapses text, truncating long strings
// to 47 characters plus an ellipsis marker.
func collapseText(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	runes := []rune(collapsed)
	if len(runes) > nameMaxLen {
		return string(runes[:nameTruncateLen]) + nameEllipsis
	}
	return collapsed
}
