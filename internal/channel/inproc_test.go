// File: internal/channel/inproc_test.go
package channel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/dom/htmldom"
)

func TestInProcChannelEndToEnd(t *testing.T) {
	doc, err := htmldom.ParseString(`<body>
		<form id="login">
			<label for="user">Username</label>
			<input id="user" type="text">
			<input id="pass" type="password" value="secret">
			<button id="submit">Sign in</button>
		</form>
	</body>`, htmldom.WithURL("file:///login.html"))
	require.NoError(t, err)

	c := NewCoordinator(NewInProcChannel(doc, nil), robustCfg(), nil)
	result, err := c.Snapshot(context.Background(), schemas.SnapshotOptions{Mode: schemas.ModeOutline}, Target{}, false)
	require.NoError(t, err)

	require.True(t, result.OK)
	require.Len(t, result.Nodes, 3)
	assert.Equal(t, "file:///login.html", result.Meta.URL)

	user := result.Nodes[0]
	assert.Equal(t, "#user", user.Selector)
	assert.Equal(t, "textbox", user.Role)
	assert.Equal(t, "Username", user.Name)

	pass := result.Nodes[1]
	assert.Equal(t, "#pass", pass.Selector)
	require.NotNil(t, pass.State)
	require.NotNil(t, pass.State.Value)
	assert.Equal(t, "***", *pass.State.Value)
	assert.NotContains(t, pass.Name, "secret")

	submit := result.Nodes[2]
	assert.Equal(t, "#submit", submit.Selector)
	assert.Equal(t, "button", submit.Role)
	assert.Equal(t, "Sign in", submit.Name)
}

func TestInProcChannelSimpleMode(t *testing.T) {
	doc, err := htmldom.ParseString(`<body><button>Go</button></body>`)
	require.NoError(t, err)

	c := NewCoordinator(NewInProcChannel(doc, nil), robustCfg(), nil)
	result, err := c.Snapshot(context.Background(), schemas.SnapshotOptions{}, Target{}, true)
	require.NoError(t, err)

	require.Len(t, result.Nodes, 1)
	node := result.Nodes[0]
	assert.Equal(t, "button", node.TagName)
	assert.Empty(t, node.Role, "simple mode runs the reduced engine")
	assert.Equal(t, "body > button", node.Selector)
}
