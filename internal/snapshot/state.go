// File: internal/snapshot/state.go
package snapshot

import (
	"strings"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// passwordMask replaces any non-empty password value. Fixed length so the
// mask never leaks more than "value is non-empty".
const passwordMask = "***"

// formControlTags are the tags whose native disabled/value properties are
// defined; for anything else those state fields stay absent.
var formControlTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
	"button":   true,
	"option":   true,
	"fieldset": true,
	"optgroup": true,
}

// extractState computes the interaction and form state of an element. Fields
// are set only where the underlying property is defined for the element, so
// absence keeps meaning "not applicable" rather than "false".
func extractState(n dom.Node) *schemas.ElementState {
	st := &schemas.ElementState{}
	tag := n.TagName()

	if isEditable(n) {
		st.Editable = boolPtr(true)
	}

	if formControlTags[tag] {
		st.Disabled = boolPtr(dom.HasAttrPresent(n, "disabled"))
	}

	if v, ok := stateValue(n); ok {
		st.Value = &v
	}

	if tag == "input" {
		switch strings.ToLower(dom.AttrOr(n, "type", "text")) {
		case "checkbox", "radio":
			st.Checked = boolPtr(dom.HasAttrPresent(n, "checked"))
		}
	}
	if tag == "option" {
		st.Selected = boolPtr(dom.HasAttrPresent(n, "selected"))
	}

	if v, ok := n.Attr("aria-expanded"); ok {
		st.Expanded = boolPtr(strings.EqualFold(strings.TrimSpace(v), "true"))
	}

	style := n.ComputedStyle()
	if style.Display == "none" || style.Visibility == "hidden" {
		st.Hidden = boolPtr(true)
	}

	if n.Focused() {
		st.Focused = boolPtr(true)
	}

	if st.IsZero() {
		return nil
	}
	return st
}

// isEditable reports content-editable elements and native text controls.
func isEditable(n dom.Node) bool {
	switch n.TagName() {
	case "input", "textarea", "select":
		return true
	}
	if v, ok := n.Attr("contenteditable"); ok {
		return !strings.EqualFold(v, "false")
	}
	return false
}

// stateValue returns the native value where defined, masking password inputs
// to a fixed marker. An empty password value stays empty: the mask must not
// reveal length beyond "something is there".
func stateValue(n dom.Node) (string, bool) {
	switch n.TagName() {
	case "input":
		v := dom.AttrOr(n, "value", "")
		if strings.EqualFold(dom.AttrOr(n, "type", "text"), "password") {
			if v == "" {
				return "", true
			}
			return passwordMask, true
		}
		return v, true
	case "textarea":
		return n.Text(), true
	case "select", "option", "button":
		return dom.AttrOr(n, "value", ""), true
	}
	return "", false
}

func boolPtr(b bool) *bool { return &b }
