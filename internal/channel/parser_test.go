// File: internal/channel/parser_test.go
package channel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

// kindOf extracts the error classification for assertions.
func kindOf(t *testing.T, err error) schemas.ErrorKind {
	t.Helper()
	var snapErr *schemas.SnapshotError
	require.ErrorAs(t, err, &snapErr)
	return snapErr.Kind()
}

func TestParsePayloadObject(t *testing.T) {
	raw := []byte(`{"ok":true,"cmd":"snapshot","nodes":[{"role":"button","name":"Go","selector":"#go","rect":{"x":1,"y":2,"w":3,"h":4}}]}`)

	result, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.True(t, result.OK)
	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "#go", result.Nodes[0].Selector)
}

func TestParsePayloadQuotedString(t *testing.T) {
	// The script returns a JSON string holding the serialized envelope; the
	// protocol then quotes that string once more.
	raw := []byte(`"{\"ok\":true,\"cmd\":\"snapshot\",\"nodes\":[]}"`)

	result, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.NotNil(t, result.Nodes)
	assert.Empty(t, result.Nodes)
}

func TestParsePayloadEmptyVariants(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("  "), []byte("null"), []byte(`""`), []byte(`"null"`)} {
		_, err := ParsePayload(raw)
		require.Error(t, err, "payload %q", raw)
		assert.Equal(t, schemas.ErrKindEmptyResult, kindOf(t, err), "payload %q", raw)
	}
}

func TestParsePayloadAmbiguousPlaceholder(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`"missing value"`),
		[]byte(`"Missing Value"`),
		[]byte(`"  missing value  "`),
	} {
		_, err := ParsePayload(raw)
		require.Error(t, err, "payload %q", raw)
		assert.Equal(t, schemas.ErrKindAmbiguousResponse, kindOf(t, err), "payload %q", raw)
	}

	// A result that merely contains the phrase is data, not a placeholder.
	result, err := ParsePayload([]byte(`{"ok":true,"cmd":"snapshot","nodes":[{"name":"missing value","selector":"#x","rect":{"x":0,"y":0,"w":1,"h":1}}]}`))
	require.NoError(t, err)
	require.Len(t, result.Nodes, 1)
}

func TestParsePayloadMalformed(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`"{not json at all"`),
		[]byte(`[1,2,3`),
		[]byte(`"unterminated`),
	} {
		_, err := ParsePayload(raw)
		require.Error(t, err, "payload %q", raw)
		assert.Equal(t, schemas.ErrKindMalformedPayload, kindOf(t, err), "payload %q", raw)
	}
}

func TestParsePayloadContentlessEnvelope(t *testing.T) {
	_, err := ParsePayload([]byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, schemas.ErrKindEmptyResult, kindOf(t, err))
}

func TestParsePayloadScriptReportedFailure(t *testing.T) {
	_, err := ParsePayload([]byte(`{"ok":false,"cmd":"snapshot","nodes":[],"error":"ReferenceError: boom"}`))
	require.Error(t, err)
	assert.Equal(t, schemas.ErrKindChannelFailure, kindOf(t, err))
	assert.Contains(t, err.Error(), "ReferenceError")
}

func TestIsAmbiguous(t *testing.T) {
	assert.True(t, isAmbiguous("missing value"))
	assert.True(t, isAmbiguous(" MISSING VALUE "))
	assert.False(t, isAmbiguous("missing value but actually a long explanation of it"))
	assert.False(t, isAmbiguous("{\"ok\":true}"))
	assert.False(t, isAmbiguous(""))
}

func TestSnapshotErrorTravelsThroughErrors(t *testing.T) {
	_, err := ParsePayload(nil)
	var snapErr *schemas.SnapshotError
	require.True(t, errors.As(err, &snapErr))
	assert.False(t, snapErr.Success)
	assert.NotZero(t, snapErr.Timestamp)
}
