// File: internal/snapshot/script_test.go
package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

func TestRenderScriptInjectsOptions(t *testing.T) {
	script := RenderScript(schemas.SnapshotOptions{
		Mode:        schemas.ModeDomLite,
		VisibleOnly: true,
		MaxDepth:    3,
	}, schemas.VariantFull)

	require.True(t, strings.HasPrefix(script, "(function"))
	assert.Contains(t, script, `"mode":"dom-lite"`)
	assert.Contains(t, script, `"visibleOnly":true`)
	assert.Contains(t, script, `"maxDepth":3`)
	// The whole program resolves to a string for the channel to carry.
	assert.Contains(t, script, "JSON.stringify")
}

func TestRenderScriptNormalizesOptions(t *testing.T) {
	script := RenderScript(schemas.SnapshotOptions{Mode: "bogus", MaxDepth: -1}, schemas.VariantFull)
	assert.Contains(t, script, `"mode":"outline"`)
	assert.Contains(t, script, `"maxDepth":10`)
}

func TestRenderScriptReducedVariant(t *testing.T) {
	full := RenderScript(schemas.SnapshotOptions{}, schemas.VariantFull)
	reduced := RenderScript(schemas.SnapshotOptions{}, schemas.VariantReduced)

	require.True(t, strings.HasPrefix(reduced, "(function"))
	assert.Less(t, len(reduced), len(full), "the fallback script must be the smaller program")
	assert.NotContains(t, reduced, "aria-label", "no accessibility work in the reduced variant")
	assert.Contains(t, full, "aria-label")
	assert.NotContains(t, reduced, "%s", "all placeholders must be substituted")
	assert.NotContains(t, full, "%s")
}
