// File: internal/channel/parser.go
package channel

import (
	"bytes"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

var jsonFast = jsoniter.ConfigCompatibleWithStandardLibrary

// ambiguousPlaceholder is the success-shaped non-answer some script hosts
// return when evaluation silently produced no value. It arrives as a bare
// string and must never be mistaken for data.
const ambiguousPlaceholder = "missing value"

// isAmbiguous reports whether a string payload is the placeholder rather
// than serialized data. Deliberately narrow: only a short string whose
// trimmed lowercase form equals the placeholder qualifies.
func isAmbiguous(s string) bool {
	if len(s) > 2*len(ambiguousPlaceholder) {
		return false
	}
	return strings.ToLower(strings.TrimSpace(s)) == ambiguousPlaceholder
}

// ParsePayload turns a raw channel payload into a snapshot result.
//
// The payload may be a JSON object (parsed directly), a JSON-encoded string
// holding the serialized result (unquoted, checked for the ambiguous
// placeholder, then parsed), or nothing at all. Classification on failure:
//
//	nil / empty / null        -> EMPTY_RESULT
//	placeholder string        -> AMBIGUOUS_RESPONSE
//	unparseable string/object -> MALFORMED_PAYLOAD
//	parsed but content-free   -> EMPTY_RESULT
func ParsePayload(raw []byte) (*schemas.SnapshotResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, schemas.NewSnapshotError(schemas.ErrKindEmptyResult,
			"channel returned no data")
	}

	body := raw
	if raw[0] == '"' {
		inner, err := strconv.Unquote(string(raw))
		if err != nil {
			return nil, schemas.NewSnapshotError(schemas.ErrKindMalformedPayload,
				"payload string is not valid JSON quoting: %v", err)
		}
		if isAmbiguous(inner) {
			return nil, schemas.NewSnapshotError(schemas.ErrKindAmbiguousResponse,
				"channel returned the %q placeholder instead of data", ambiguousPlaceholder)
		}
		inner = strings.TrimSpace(inner)
		if inner == "" || inner == "null" {
			return nil, schemas.NewSnapshotError(schemas.ErrKindEmptyResult,
				"channel returned an empty payload string")
		}
		body = []byte(inner)
	}

	var result schemas.SnapshotResult
	if err := jsonFast.Unmarshal(body, &result); err != nil {
		return nil, schemas.NewSnapshotError(schemas.ErrKindMalformedPayload,
			"payload is not a snapshot result: %v", err)
	}

	// A decoded envelope that carries neither nodes, nor an error, nor a
	// success marker is no answer at all.
	if !result.OK && result.Error == "" && len(result.Nodes) == 0 && result.Meta == nil {
		return nil, schemas.NewSnapshotError(schemas.ErrKindEmptyResult,
			"channel returned a contentless result envelope")
	}
	if !result.OK {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"script reported failure: %s", result.Error)
	}
	if result.Nodes == nil {
		result.Nodes = []schemas.SnapshotNode{}
	}
	return &result, nil
}
