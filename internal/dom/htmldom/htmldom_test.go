// File: internal/dom/htmldom/htmldom_test.go
package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

func firstChild(t *testing.T, n dom.Node) dom.Node {
	t.Helper()
	require.NotEmpty(t, n.Children())
	return n.Children()[0]
}

func TestParseBasicDocument(t *testing.T) {
	doc, err := ParseString(`<html><head><title> My Page </title></head>
		<body><div id="Main" CLASS="box">Hello <b>world</b></div></body></html>`,
		WithURL("https://example.test/page"))
	require.NoError(t, err)

	assert.Equal(t, "My Page", doc.Title())
	assert.Equal(t, "https://example.test/page", doc.URL())
	assert.Equal(t, DefaultViewport, doc.Viewport())

	body := doc.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.TagName())

	div := firstChild(t, body)
	assert.Equal(t, "div", div.TagName())

	// Attribute names are case folded; values are not.
	id, ok := div.Attr("ID")
	require.True(t, ok)
	assert.Equal(t, "Main", id)
	cls, ok := div.Attr("class")
	require.True(t, ok)
	assert.Equal(t, "box", cls)

	assert.Equal(t, "Hello world", div.Text())
	assert.Same(t, body, div.Parent())
	assert.Nil(t, body.Parent())
}

func TestBoundingRectSyntheticAndInline(t *testing.T) {
	doc, err := ParseString(`<body>
		<div>plain</div>
		<div style="left: 10px; top: 20px; width: 30px; height: 40px">boxed</div>
	</body>`)
	require.NoError(t, err)

	divs := doc.Body().Children()
	require.Len(t, divs, 2)

	// No inline box: a synthetic full-width row.
	assert.Equal(t, dom.Rect{X: 0, Y: 0, W: DefaultViewport.W, H: 16}, divs[0].BoundingRect())
	assert.Equal(t, dom.Rect{X: 10, Y: 20, W: 30, H: 40}, divs[1].BoundingRect())
}

func TestDisplayNoneZeroesRectAndLayout(t *testing.T) {
	doc, err := ParseString(`<body>
		<div style="display: none"><span>inside</span></div>
	</body>`)
	require.NoError(t, err)

	div := firstChild(t, doc.Body())
	span := firstChild(t, div)

	assert.False(t, div.InLayout())
	assert.False(t, span.InLayout(), "layout removal is inherited")
	assert.Equal(t, dom.Rect{}, div.BoundingRect())
	assert.Equal(t, dom.Rect{}, span.BoundingRect())
	assert.Equal(t, "none", div.ComputedStyle().Display)
	// The child's own display is unaffected; only layout participation is.
	assert.Equal(t, "block", span.ComputedStyle().Display)
}

func TestHiddenAttributeActsAsDisplayNone(t *testing.T) {
	doc, err := ParseString(`<body><div hidden>gone</div></body>`)
	require.NoError(t, err)

	div := firstChild(t, doc.Body())
	assert.Equal(t, "none", div.ComputedStyle().Display)
	assert.False(t, div.InLayout())
}

func TestVisibilityInheritsFromAncestors(t *testing.T) {
	doc, err := ParseString(`<body>
		<div style="visibility: hidden"><span>a</span></div>
		<div><span>b</span></div>
	</body>`)
	require.NoError(t, err)

	divs := doc.Body().Children()
	hiddenSpan := firstChild(t, divs[0])
	plainSpan := firstChild(t, divs[1])

	assert.Equal(t, "hidden", hiddenSpan.ComputedStyle().Visibility)
	assert.Equal(t, "visible", plainSpan.ComputedStyle().Visibility)
}

func TestOpacityParsing(t *testing.T) {
	doc, err := ParseString(`<body>
		<div style="opacity: 0.5">half</div>
		<div style="opacity: 0">gone</div>
		<div>solid</div>
	</body>`)
	require.NoError(t, err)

	divs := doc.Body().Children()
	assert.InDelta(t, 0.5, divs[0].ComputedStyle().Opacity, 1e-9)
	assert.Zero(t, divs[1].ComputedStyle().Opacity)
	assert.Equal(t, 1.0, divs[2].ComputedStyle().Opacity)
}

func TestAutofocusMarksActiveElement(t *testing.T) {
	doc, err := ParseString(`<body>
		<input id="first">
		<input id="second" autofocus>
		<input id="third" autofocus>
	</body>`)
	require.NoError(t, err)

	inputs := doc.Body().Children()
	require.Len(t, inputs, 3)
	assert.False(t, inputs[0].Focused())
	assert.True(t, inputs[1].Focused(), "first autofocus wins")
	assert.False(t, inputs[2].Focused())
}

func TestParseWithViewportOverride(t *testing.T) {
	vp := dom.Rect{W: 320, H: 480}
	doc, err := ParseString(`<body><div>x</div></body>`, WithViewport(vp))
	require.NoError(t, err)

	assert.Equal(t, vp, doc.Viewport())
	// The synthetic row tracks the viewport width.
	assert.Equal(t, 320.0, firstChild(t, doc.Body()).BoundingRect().W)
}

func TestRectIntersects(t *testing.T) {
	a := dom.Rect{X: 0, Y: 0, W: 100, H: 100}
	assert.True(t, a.Intersects(dom.Rect{X: 50, Y: 50, W: 100, H: 100}))
	assert.False(t, a.Intersects(dom.Rect{X: 100, Y: 0, W: 10, H: 10}), "touching edges do not overlap")
	assert.False(t, a.Intersects(dom.Rect{X: -20, Y: 0, W: 10, H: 10}))
}
