// File: internal/snapshot/state_test.go
package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStateTextInput(t *testing.T) {
	doc := mustDoc(t, `<body><input type="text" value="hello"></body>`)
	st := extractState(findByTag(doc.Body(), "input"))

	require.NotNil(t, st)
	require.NotNil(t, st.Editable)
	assert.True(t, *st.Editable)
	require.NotNil(t, st.Disabled)
	assert.False(t, *st.Disabled)
	require.NotNil(t, st.Value)
	assert.Equal(t, "hello", *st.Value)
	assert.Nil(t, st.Checked, "checked is undefined for text inputs")
	assert.Nil(t, st.Selected)
}

func TestExtractStatePasswordMasking(t *testing.T) {
	doc := mustDoc(t, `<body>
		<input type="password" value="hunter2">
		<input type="password" value="">
	</body>`)
	inputs := findAllByTag(doc.Body(), "input")

	st := extractState(inputs[0])
	require.NotNil(t, st)
	require.NotNil(t, st.Value)
	assert.Equal(t, "***", *st.Value, "non-empty password values are masked")

	st = extractState(inputs[1])
	require.NotNil(t, st)
	require.NotNil(t, st.Value)
	assert.Equal(t, "", *st.Value, "empty password values stay empty")
}

func TestExtractStateCheckboxAndOption(t *testing.T) {
	doc := mustDoc(t, `<body>
		<input type="checkbox" checked>
		<input type="radio">
		<select><option value="a" selected>A</option><option value="b" disabled>B</option></select>
	</body>`)
	body := doc.Body()

	inputs := findAllByTag(body, "input")
	st := extractState(inputs[0])
	require.NotNil(t, st)
	require.NotNil(t, st.Checked)
	assert.True(t, *st.Checked)

	st = extractState(inputs[1])
	require.NotNil(t, st)
	require.NotNil(t, st.Checked)
	assert.False(t, *st.Checked)

	options := findAllByTag(body, "option")
	st = extractState(options[0])
	require.NotNil(t, st)
	require.NotNil(t, st.Selected)
	assert.True(t, *st.Selected)
	require.NotNil(t, st.Disabled, "option mirrors the native disabled property")
	assert.False(t, *st.Disabled)

	st = extractState(options[1])
	require.NotNil(t, st)
	require.NotNil(t, st.Selected)
	assert.False(t, *st.Selected)
	require.NotNil(t, st.Disabled)
	assert.True(t, *st.Disabled)
}

func TestExtractStateDisabledAndExpanded(t *testing.T) {
	doc := mustDoc(t, `<body>
		<button disabled aria-expanded="true">Menu</button>
	</body>`)
	st := extractState(findByTag(doc.Body(), "button"))

	require.NotNil(t, st)
	require.NotNil(t, st.Disabled)
	assert.True(t, *st.Disabled)
	require.NotNil(t, st.Expanded)
	assert.True(t, *st.Expanded)
}

func TestExtractStateContentEditable(t *testing.T) {
	doc := mustDoc(t, `<body>
		<div contenteditable>note</div>
		<div contenteditable="false">fixed</div>
	</body>`)
	divs := findAllByTag(doc.Body(), "div")

	st := extractState(divs[0])
	require.NotNil(t, st)
	require.NotNil(t, st.Editable)
	assert.True(t, *st.Editable)

	assert.Nil(t, extractState(divs[1]), "contenteditable=false carries no state")
}

func TestExtractStateHiddenAndFocused(t *testing.T) {
	doc := mustDoc(t, `<body>
		<input style="visibility: hidden">
		<input autofocus>
	</body>`)
	inputs := findAllByTag(doc.Body(), "input")

	st := extractState(inputs[0])
	require.NotNil(t, st)
	require.NotNil(t, st.Hidden)
	assert.True(t, *st.Hidden)
	assert.Nil(t, st.Focused)

	st = extractState(inputs[1])
	require.NotNil(t, st)
	require.NotNil(t, st.Focused)
	assert.True(t, *st.Focused)
	assert.Nil(t, st.Hidden)
}

func TestExtractStatePlainElementIsNil(t *testing.T) {
	doc := mustDoc(t, `<body><p>just text</p></body>`)
	assert.Nil(t, extractState(findByTag(doc.Body(), "p")))
}
